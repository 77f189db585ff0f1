package shell

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/smarty/upkeep/contracts"
)

type DiskFileSystem struct{}

func NewDiskFileSystem() *DiskFileSystem {
	return &DiskFileSystem{}
}

func (this *DiskFileSystem) Listing(root string) (listing []string, err error) {
	root = filepath.Clean(root)
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		relative, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		listing = append(listing, filepath.ToSlash(relative))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	sort.Strings(listing)
	return listing, err
}

func (this *DiskFileSystem) Stat(path string) (contracts.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	fileInfo := FileInfo{
		path: path,
		size: info.Size(),
		mod:  info.ModTime(),
	}
	return fileInfo, nil
}

func (this *DiskFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (this *DiskFileSystem) Create(path string) (io.WriteCloser, error) {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return nil, err
	}
	return os.Create(path)
}

func (this *DiskFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (this *DiskFileSystem) WriteFile(path string, content []byte) error {
	return os.WriteFile(path, content, 0644)
}

func (this *DiskFileSystem) Delete(path string) error {
	return os.Remove(path)
}

func (this *DiskFileSystem) Move(source, target string) error {
	err := os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		return err
	}
	return os.Rename(source, target)
}

func (this *DiskFileSystem) MakeDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

func (this *DiskFileSystem) RecreateDirectory(path string) error {
	err := os.RemoveAll(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0755)
}

func (this *DiskFileSystem) DeleteDirectory(path string) error {
	return os.RemoveAll(path)
}

////////////////////////////////////////

type FileInfo struct {
	path string
	size int64
	mod  time.Time
}

func (this FileInfo) Path() string       { return this.path }
func (this FileInfo) Size() int64        { return this.size }
func (this FileInfo) ModTime() time.Time { return this.mod }

var _ contracts.FileSystem = new(DiskFileSystem)
