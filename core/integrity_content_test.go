package core

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/smarty/upkeep/contracts"
	"github.com/smarty/upkeep/shell"
)

func TestFileDigestIntegrityCheckFixture(t *testing.T) {
	gunit.Run(new(FileDigestIntegrityCheckFixture), t)
}

type FileDigestIntegrityCheckFixture struct {
	*gunit.Fixture

	checker    *FileDigestIntegrityCheck
	fileSystem *shell.InMemoryFileSystem
	file       contracts.FileDescriptor
}

func (this *FileDigestIntegrityCheckFixture) Setup() {
	this.fileSystem = shell.NewInMemoryFileSystem()
	_ = this.fileSystem.WriteFile("/bin/hello.txt", []byte("hello"))
	this.file = contracts.FileDescriptor{
		Name: "hello.txt",
		Size: contracts.Bytes(5),
		MD5:  "5d41402abc4b2a76b9719d911017c592",
		SHA1: "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
	}
	this.checker = NewFileDigestIntegrityCheck(this.fileSystem)
}

func (this *FileDigestIntegrityCheckFixture) TestFileContentsIntact() {
	this.So(this.checker.Verify(this.file, "/bin/hello.txt"), should.BeNil)
}

func (this *FileDigestIntegrityCheckFixture) TestDigestsCompareCaseInsensitively() {
	this.file.MD5 = strings.ToUpper(this.file.MD5)
	this.file.SHA1 = strings.ToUpper(this.file.SHA1)

	this.So(this.checker.Verify(this.file, "/bin/hello.txt"), should.BeNil)
}

func (this *FileDigestIntegrityCheckFixture) TestModifiedContentsFail() {
	_ = this.fileSystem.WriteFile("/bin/hello.txt", []byte("jello"))

	err := this.checker.Verify(this.file, "/bin/hello.txt")

	this.So(errors.Is(err, contracts.ErrDigestMismatch), should.BeTrue)
	this.So(err.Error(), should.ContainSubstring, "hello.txt")
	this.So(err.Error(), should.ContainSubstring, this.file.MD5)
}

func (this *FileDigestIntegrityCheckFixture) TestEitherDigestMismatchFails() {
	this.file.SHA1 = "0000000000000000000000000000000000000000"

	report, err := this.checker.Inspect(this.file, "/bin/hello.txt")

	this.So(err, should.BeNil)
	this.So(report.Passed, should.BeFalse)
	this.So(report.MD5, should.Equal, "5d41402abc4b2a76b9719d911017c592")
	this.So(report.SHA1, should.Equal, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d")
}

func (this *FileDigestIntegrityCheckFixture) TestMissingFile() {
	err := this.checker.Verify(this.file, "/bin/missing.txt")

	this.So(errors.Is(err, fs.ErrNotExist), should.BeTrue)
	this.So(errors.Is(err, contracts.ErrDigestMismatch), should.BeFalse)
}

func describe(name, content string) contracts.FileDescriptor {
	md5Sum := md5.Sum([]byte(content))
	sha1Sum := sha1.Sum([]byte(content))
	return contracts.FileDescriptor{
		Name: name,
		Size: contracts.Bytes(uint64(len(content))),
		URL:  "/files/" + name,
		MD5:  hex.EncodeToString(md5Sum[:]),
		SHA1: hex.EncodeToString(sha1Sum[:]),
	}
}
