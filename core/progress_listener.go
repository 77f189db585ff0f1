package core

import (
	"sync"

	"github.com/smarty/upkeep/contracts"
)

// SynchronizedProgressListener serializes calls into a listener that is not
// safe for concurrent use.
type SynchronizedProgressListener struct {
	lock  sync.Mutex
	inner contracts.ProgressListener
}

func NewSynchronizedProgressListener(inner contracts.ProgressListener) *SynchronizedProgressListener {
	if synchronized, ok := inner.(*SynchronizedProgressListener); ok {
		return synchronized
	}
	return &SynchronizedProgressListener{inner: inner}
}

func (this *SynchronizedProgressListener) StartingDownload(numberOfFiles int, totalSize contracts.MemoryUnit) {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.inner.StartingDownload(numberOfFiles, totalSize)
}

func (this *SynchronizedProgressListener) DownloadedSome(amount contracts.MemoryUnit) {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.inner.DownloadedSome(amount)
}

func (this *SynchronizedProgressListener) CompletedADownload(size contracts.MemoryUnit) {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.inner.CompletedADownload(size)
}

func (this *SynchronizedProgressListener) StartingVerify(numberOfFiles int) {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.inner.StartingVerify(numberOfFiles)
}

func (this *SynchronizedProgressListener) CompletedAVerify() {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.inner.CompletedAVerify()
}
