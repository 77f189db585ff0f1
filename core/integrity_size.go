package core

import (
	"fmt"

	"github.com/smarty/upkeep/contracts"
)

type FileSizeIntegrityCheck struct {
	fileSystem contracts.FileChecker
}

func NewFileSizeIntegrityCheck(fileSystem contracts.FileChecker) *FileSizeIntegrityCheck {
	return &FileSizeIntegrityCheck{fileSystem: fileSystem}
}

func (this *FileSizeIntegrityCheck) Verify(file contracts.FileDescriptor, path string) error {
	info, err := this.fileSystem.Stat(path)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", file.Name, err)
	}
	if uint64(info.Size()) != file.Size.InBytes() {
		return fmt.Errorf("%w: %s (expected: [%d], actual: [%d])",
			contracts.ErrSizeMismatch, file.Name, file.Size.InBytes(), info.Size())
	}
	return nil
}
