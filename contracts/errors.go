package contracts

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrFormat                = errors.New("malformed input")
	ErrFormatVersionMismatch = errors.New("unsupported feed format version")
	ErrNetwork               = errors.New("network failure")
	ErrCorruptLocalState     = errors.New("corrupt local state")
	ErrSizeMismatch          = errors.New("file size mismatch")
	ErrDigestMismatch        = errors.New("file digest mismatch")
	ErrAggregateDownload     = errors.New("one or more files failed")
	ErrNothingToInstall      = errors.New("nothing to install")
)

// BatchError reports every file of a download batch that failed. It matches
// ErrAggregateDownload and each of the individual causes under errors.Is.
type BatchError struct {
	Attempted int
	Failures  *multierror.Error
}

func NewBatchError(attempted int, failures *multierror.Error) *BatchError {
	return &BatchError{Attempted: attempted, Failures: failures}
}

func (this *BatchError) Failed() int {
	return this.Failures.Len()
}

func (this *BatchError) Error() string {
	return fmt.Sprintf("%s (%d of %d): %s",
		ErrAggregateDownload, this.Failed(), this.Attempted, this.Failures.Error())
}

func (this *BatchError) Is(target error) bool {
	return target == ErrAggregateDownload
}

func (this *BatchError) Unwrap() []error {
	return this.Failures.WrappedErrors()
}
