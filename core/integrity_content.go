package core

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/smarty/upkeep/contracts"
)

// DigestReport holds the digests computed for one file and whether both
// matched what the file's descriptor declares.
type DigestReport struct {
	MD5    string
	SHA1   string
	Passed bool
}

type FileDigestIntegrityCheck struct {
	fileSystem contracts.FileOpener
}

func NewFileDigestIntegrityCheck(fileSystem contracts.FileOpener) *FileDigestIntegrityCheck {
	return &FileDigestIntegrityCheck{fileSystem: fileSystem}
}

func (this *FileDigestIntegrityCheck) Verify(file contracts.FileDescriptor, path string) error {
	report, err := this.Inspect(file, path)
	if err != nil {
		return err
	}
	if !report.Passed {
		return fmt.Errorf("%w: %s (expected md5 %s sha1 %s, actual md5 %s sha1 %s)",
			contracts.ErrDigestMismatch, file.Name, file.MD5, file.SHA1, report.MD5, report.SHA1)
	}
	return nil
}

func (this *FileDigestIntegrityCheck) Inspect(file contracts.FileDescriptor, path string) (DigestReport, error) {
	reader, err := this.fileSystem.Open(path)
	if err != nil {
		return DigestReport{}, fmt.Errorf("verifying %s: %w", file.Name, err)
	}
	defer func() { _ = reader.Close() }()

	md5Hash, sha1Hash := md5.New(), sha1.New()
	if _, err = io.Copy(io.Discard, NewHashReader(reader, md5Hash, sha1Hash)); err != nil {
		return DigestReport{}, fmt.Errorf("verifying %s: %w", file.Name, err)
	}

	report := DigestReport{
		MD5:  hex.EncodeToString(md5Hash.Sum(nil)),
		SHA1: hex.EncodeToString(sha1Hash.Sum(nil)),
	}
	report.Passed = strings.EqualFold(report.MD5, file.MD5) && strings.EqualFold(report.SHA1, file.SHA1)
	return report, nil
}
