package contracts

type FileDescriptor struct {
	Name string
	Size MemoryUnit
	URL  string
	MD5  string
	SHA1 string
}

// Equal compares name, size and digests. The URL a file is served from does
// not change its identity.
func (this FileDescriptor) Equal(that FileDescriptor) bool {
	return this.Name == that.Name &&
		this.Size == that.Size &&
		this.MD5 == that.MD5 &&
		this.SHA1 == that.SHA1
}

func (this FileDescriptor) String() string {
	return this.Name + " (" + this.Size.String() + ")"
}

type FileSet struct {
	files     []FileDescriptor
	totalSize MemoryUnit
}

func NewFileSet(files ...FileDescriptor) FileSet {
	copied := make([]FileDescriptor, len(files))
	copy(copied, files)

	var total MemoryUnit
	for _, file := range copied {
		total = total.Plus(file.Size)
	}
	return FileSet{files: copied, totalSize: total}
}

func (this FileSet) Files() []FileDescriptor {
	copied := make([]FileDescriptor, len(this.files))
	copy(copied, this.files)
	return copied
}

func (this FileSet) Count() int            { return len(this.files) }
func (this FileSet) IsEmpty() bool         { return len(this.files) == 0 }
func (this FileSet) TotalSize() MemoryUnit { return this.totalSize }

func (this FileSet) Contains(file FileDescriptor) bool {
	for _, item := range this.files {
		if item.Equal(file) {
			return true
		}
	}
	return false
}

func (this FileSet) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(this.files))
	for _, item := range this.files {
		names[item.Name] = struct{}{}
	}
	return names
}
