package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/smarty/upkeep/contracts"
)

type downloaderFileSystem interface {
	contracts.FileCreator
	contracts.Mover
	contracts.Deleter
	contracts.PathLister
	contracts.DirectoryManager
}

// Downloader fetches a file set into the binary directory by way of the
// temporary directory, prunes files the full set no longer names and then
// verifies what it fetched.
type Downloader struct {
	client     contracts.HTTPClient
	fileSystem downloaderFileSystem
	integrity  contracts.IntegrityCheck
	archiver   contracts.Archiver
	binary     string
	temporary  string
	snapshots  string
	workers    int
	now        func() time.Time
}

func NewDownloader(
	client contracts.HTTPClient,
	fileSystem downloaderFileSystem,
	integrity contracts.IntegrityCheck,
	archiver contracts.Archiver,
	config contracts.Config,
) *Downloader {
	workers := config.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Downloader{
		client:     client,
		fileSystem: fileSystem,
		integrity:  integrity,
		archiver:   archiver,
		binary:     config.BinaryPath(),
		temporary:  config.TemporaryPath(),
		snapshots:  config.SnapshotPath(),
		workers:    workers,
		now:        time.Now,
	}
}

func (this *Downloader) Download(ctx context.Context, files, full contracts.FileSet, listener contracts.ProgressListener) error {
	if files.IsEmpty() {
		return nil
	}
	listener = NewSynchronizedProgressListener(listener)

	if err := this.fileSystem.RecreateDirectory(this.temporary); err != nil {
		return fmt.Errorf("preparing %s: %w", this.temporary, err)
	}
	if err := this.fileSystem.MakeDirectory(this.binary); err != nil {
		return fmt.Errorf("preparing %s: %w", this.binary, err)
	}

	batch := &batchResult{}
	log.Infof("downloading %d files (%s)", files.Count(), files.TotalSize())
	listener.StartingDownload(files.Count(), files.TotalSize())
	this.each(ctx, files.Files(), func(file contracts.FileDescriptor) {
		if err := this.download(ctx, file, listener); err != nil {
			batch.fail(err)
		} else {
			batch.succeed(file)
		}
	})
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("downloading update: %w", err)
	}

	this.collectGarbage(full)

	downloaded := batch.downloaded
	listener.StartingVerify(len(downloaded))
	this.each(ctx, downloaded, func(file contracts.FileDescriptor) {
		if err := this.integrity.Verify(file, this.binaryPath(file)); err != nil {
			batch.fail(err)
		} else {
			listener.CompletedAVerify()
		}
	})
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("verifying update: %w", err)
	}

	if err := this.fileSystem.DeleteDirectory(this.temporary); err != nil {
		log.Warnf("removing %s: %s", this.temporary, err)
	}
	if batch.failures != nil {
		return contracts.NewBatchError(files.Count(), batch.failures)
	}
	log.Infof("downloaded and verified %d files", files.Count())
	return nil
}

// each runs task for every file on at most this.workers goroutines and
// returns once all started tasks have finished. No new task starts after ctx
// is done.
func (this *Downloader) each(ctx context.Context, files []contracts.FileDescriptor, task func(contracts.FileDescriptor)) {
	var group errgroup.Group
	group.SetLimit(this.workers)
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		file := file
		group.Go(func() error {
			if ctx.Err() == nil {
				task(file)
			}
			return nil
		})
	}
	_ = group.Wait()
}

func (this *Downloader) download(ctx context.Context, file contracts.FileDescriptor, listener contracts.ProgressListener) error {
	log.Debugf("downloading %s from %s", file.Name, file.URL)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", file.Name, err)
	}
	response, err := this.client.Do(request)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", file.Name, contracts.ErrNetwork, err)
	}
	defer func() { _ = response.Body.Close() }()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %w: %s", file.Name, contracts.ErrNetwork, response.Status)
	}

	temporary := filepath.Join(this.temporary, filepath.FromSlash(file.Name))
	writer, err := this.fileSystem.Create(temporary)
	if err != nil {
		return fmt.Errorf("%s: %w", file.Name, err)
	}
	counter := NewProgressCounter(listener)
	_, err = io.Copy(io.MultiWriter(writer, counter), response.Body)
	_ = counter.Close()
	closeErr := writer.Close()
	if err != nil {
		return fmt.Errorf("%s: %w: %w", file.Name, contracts.ErrNetwork, err)
	}
	if closeErr != nil {
		return fmt.Errorf("%s: %w", file.Name, closeErr)
	}
	if counter.Written() != file.Size {
		return fmt.Errorf("%w: %s (expected: [%d], actual: [%d])",
			contracts.ErrSizeMismatch, file.Name, file.Size.InBytes(), counter.Written().InBytes())
	}

	if err = this.fileSystem.Move(temporary, this.binaryPath(file)); err != nil {
		return fmt.Errorf("%s: %w", file.Name, err)
	}
	listener.CompletedADownload(file.Size)
	return nil
}

func (this *Downloader) binaryPath(file contracts.FileDescriptor) string {
	return filepath.Join(this.binary, filepath.FromSlash(file.Name))
}

// collectGarbage removes every file below the binary directory that full does
// not name. Failures here never fail the update.
func (this *Downloader) collectGarbage(full contracts.FileSet) {
	listing, err := this.fileSystem.Listing(this.binary)
	if err != nil {
		log.Warnf("listing %s: %s", this.binary, err)
		return
	}

	names := full.Names()
	var stale []string
	for _, name := range listing {
		if _, found := names[name]; !found {
			stale = append(stale, filepath.Join(this.binary, filepath.FromSlash(name)))
		}
	}
	if len(stale) == 0 {
		return
	}

	this.snapshot(stale)
	for _, path := range stale {
		log.Debugf("removing stale file %s", path)
		if err = this.fileSystem.Delete(path); err != nil {
			log.Warnf("removing stale file %s: %s", path, err)
		}
	}
}

func (this *Downloader) snapshot(stale []string) {
	if this.snapshots == "" || this.archiver == nil {
		return
	}
	if err := this.fileSystem.MakeDirectory(this.snapshots); err != nil {
		log.Warnf("preparing %s: %s", this.snapshots, err)
		return
	}
	destination := filepath.Join(this.snapshots, fmt.Sprintf("stale-%d.tar.gz", this.now().UnixNano()))
	if err := this.archiver.Archive(stale, destination); err != nil {
		log.Warnf("archiving %d stale files into %s: %s", len(stale), destination, err)
		return
	}
	log.Infof("archived %d stale files into %s", len(stale), destination)
}

//////////////////////////////////////////////////////////////////////

type batchResult struct {
	lock       sync.Mutex
	downloaded []contracts.FileDescriptor
	failures   *multierror.Error
}

func (this *batchResult) succeed(file contracts.FileDescriptor) {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.downloaded = append(this.downloaded, file)
}

func (this *batchResult) fail(err error) {
	this.lock.Lock()
	defer this.lock.Unlock()
	log.Debugf("%s", err)
	this.failures = multierror.Append(this.failures, err)
}
