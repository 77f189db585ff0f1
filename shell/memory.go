package shell

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/smarty/upkeep/contracts"
)

// InMemoryFileSystem is a goroutine-safe stand-in for the disk. Paths are
// cleaned before use so "a/b" and "a//b" name the same file.
type InMemoryFileSystem struct {
	lock        sync.Mutex
	files       map[string]*file
	directories map[string]struct{}
	failures    map[string]error
}

func NewInMemoryFileSystem() *InMemoryFileSystem {
	return &InMemoryFileSystem{
		files:       make(map[string]*file),
		directories: make(map[string]struct{}),
		failures:    make(map[string]error),
	}
}

// FailWrites makes every subsequent write, create or move targeting path
// fail with err.
func (this *InMemoryFileSystem) FailWrites(path string, err error) {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.failures[clean(path)] = err
}

func (this *InMemoryFileSystem) Exists(path string) bool {
	this.lock.Lock()
	defer this.lock.Unlock()
	_, found := this.files[clean(path)]
	return found
}

func (this *InMemoryFileSystem) DirectoryExists(path string) bool {
	this.lock.Lock()
	defer this.lock.Unlock()
	_, found := this.directories[clean(path)]
	return found
}

func (this *InMemoryFileSystem) Listing(root string) (listing []string, err error) {
	this.lock.Lock()
	defer this.lock.Unlock()

	prefix := clean(root) + "/"
	for name := range this.files {
		if strings.HasPrefix(name, prefix) {
			listing = append(listing, strings.TrimPrefix(name, prefix))
		}
	}
	sort.Strings(listing)
	return listing, nil
}

func (this *InMemoryFileSystem) Stat(path string) (contracts.FileInfo, error) {
	this.lock.Lock()
	defer this.lock.Unlock()

	target, found := this.files[clean(path)]
	if !found {
		return nil, notExist("stat", path)
	}
	return FileInfo{path: path, size: int64(len(target.contents)), mod: target.mod}, nil
}

func (this *InMemoryFileSystem) Open(path string) (io.ReadCloser, error) {
	contents, err := this.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(contents)), nil
}

func (this *InMemoryFileSystem) Create(path string) (io.WriteCloser, error) {
	err := this.WriteFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &writer{owner: this, path: clean(path)}, nil
}

func (this *InMemoryFileSystem) ReadFile(path string) ([]byte, error) {
	this.lock.Lock()
	defer this.lock.Unlock()

	target, found := this.files[clean(path)]
	if !found {
		return nil, notExist("open", path)
	}
	return bytes.Clone(target.contents), nil
}

func (this *InMemoryFileSystem) WriteFile(path string, content []byte) error {
	this.lock.Lock()
	defer this.lock.Unlock()

	key := clean(path)
	if err := this.failures[key]; err != nil {
		return &fs.PathError{Op: "write", Path: path, Err: err}
	}
	this.files[key] = &file{contents: bytes.Clone(content), mod: InMemoryModTime}
	return nil
}

func (this *InMemoryFileSystem) Delete(path string) error {
	this.lock.Lock()
	defer this.lock.Unlock()

	key := clean(path)
	if _, found := this.files[key]; !found {
		return notExist("remove", path)
	}
	delete(this.files, key)
	return nil
}

func (this *InMemoryFileSystem) Move(source, target string) error {
	this.lock.Lock()
	defer this.lock.Unlock()

	from, to := clean(source), clean(target)
	moved, found := this.files[from]
	if !found {
		return notExist("rename", source)
	}
	if err := this.failures[to]; err != nil {
		return &fs.PathError{Op: "rename", Path: target, Err: err}
	}
	delete(this.files, from)
	this.files[to] = moved
	this.directories[path.Dir(to)] = struct{}{}
	return nil
}

func (this *InMemoryFileSystem) MakeDirectory(path string) error {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.directories[clean(path)] = struct{}{}
	return nil
}

func (this *InMemoryFileSystem) RecreateDirectory(path string) error {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.removeAll(clean(path))
	this.directories[clean(path)] = struct{}{}
	return nil
}

func (this *InMemoryFileSystem) DeleteDirectory(path string) error {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.removeAll(clean(path))
	return nil
}

func (this *InMemoryFileSystem) removeAll(root string) {
	prefix := root + "/"
	for name := range this.files {
		if strings.HasPrefix(name, prefix) {
			delete(this.files, name)
		}
	}
	for name := range this.directories {
		if name == root || strings.HasPrefix(name, prefix) {
			delete(this.directories, name)
		}
	}
}

func (this *InMemoryFileSystem) append(path string, content []byte) (int, error) {
	this.lock.Lock()
	defer this.lock.Unlock()

	target, found := this.files[path]
	if !found {
		return 0, notExist("write", path)
	}
	target.contents = append(target.contents, content...)
	return len(content), nil
}

var _ contracts.FileSystem = new(InMemoryFileSystem)

/////////////////////////////////////////////////

var InMemoryModTime = time.Now()

type file struct {
	contents []byte
	mod      time.Time
}

type writer struct {
	owner *InMemoryFileSystem
	path  string
}

func (this *writer) Write(p []byte) (int, error) { return this.owner.append(this.path, p) }
func (this *writer) Close() error                { return nil }

func clean(name string) string {
	return filepath.ToSlash(filepath.Clean(name))
}

func notExist(op, path string) error {
	return &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
}
