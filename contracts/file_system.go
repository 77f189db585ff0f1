package contracts

import (
	"io"
	"time"
)

type PathLister interface {
	// Listing returns the slash-separated paths of every regular file below
	// root, relative to root.
	Listing(root string) ([]string, error)
}

type FileOpener interface {
	Open(path string) (io.ReadCloser, error)
}

type FileCreator interface {
	Create(path string) (io.WriteCloser, error)
}

type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type FileWriter interface {
	WriteFile(path string, content []byte) error
}

type Deleter interface {
	Delete(path string) error
}

type Mover interface {
	Move(source, target string) error
}

type DirectoryManager interface {
	MakeDirectory(path string) error
	RecreateDirectory(path string) error
	DeleteDirectory(path string) error
}

type FileChecker interface {
	Stat(path string) (FileInfo, error)
}

type FileInfo interface {
	Path() string
	Size() int64
	ModTime() time.Time
}

type FileSystem interface {
	PathLister
	FileOpener
	FileCreator
	FileReader
	FileWriter
	Deleter
	Mover
	DirectoryManager
	FileChecker
}
