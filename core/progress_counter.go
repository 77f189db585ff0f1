package core

import "github.com/smarty/upkeep/contracts"

const progressQuantum = 2 << 10

// ProgressCounter is a write-only sink that counts what passes through it and
// reports to its listener in fixed quanta. Close reports the remainder.
type ProgressCounter struct {
	listener contracts.ProgressListener
	written  uint64
	pending  uint64
}

func NewProgressCounter(listener contracts.ProgressListener) *ProgressCounter {
	return &ProgressCounter{listener: listener}
}

func (this *ProgressCounter) Write(p []byte) (n int, err error) {
	n = len(p)
	this.written += uint64(n)
	this.pending += uint64(n)
	for this.pending >= progressQuantum {
		this.listener.DownloadedSome(contracts.Bytes(progressQuantum))
		this.pending -= progressQuantum
	}
	return n, nil
}

func (this *ProgressCounter) Written() contracts.MemoryUnit {
	return contracts.Bytes(this.written)
}

func (this *ProgressCounter) Close() error {
	if this.pending > 0 {
		this.listener.DownloadedSome(contracts.Bytes(this.pending))
		this.pending = 0
	}
	return nil
}
