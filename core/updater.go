package core

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/smarty/upkeep/contracts"
)

type updateFeed interface {
	Begin(ctx context.Context)
	Resolve(ctx context.Context, current contracts.Version) (contracts.UpdateInformation, error)
}

type versionStore interface {
	Load() contracts.Presence
	VersionOr(fallback contracts.Version) contracts.Version
	Write(version contracts.Version)
}

type fileDownloader interface {
	Download(ctx context.Context, files, full contracts.FileSet, listener contracts.ProgressListener) error
}

// Updater runs one check-download-launch session.
type Updater struct {
	feed       updateFeed
	store      versionStore
	downloader fileDownloader
	status     contracts.StatusListener
	response   contracts.ResponseSource
	launcher   contracts.Launcher
}

func NewUpdater(
	feed updateFeed,
	store versionStore,
	downloader fileDownloader,
	status contracts.StatusListener,
	response contracts.ResponseSource,
	launcher contracts.Launcher,
) *Updater {
	return &Updater{
		feed:       feed,
		store:      store,
		downloader: downloader,
		status:     status,
		response:   response,
		launcher:   launcher,
	}
}

func (this *Updater) Run(ctx context.Context) error {
	this.status.Checking()
	this.feed.Begin(ctx)
	presence := this.store.Load()
	log.Debugf("installation is %s", presence)

	info, err := this.feed.Resolve(ctx, this.store.VersionOr(contracts.NewVersion(0)))
	if err != nil {
		return this.recover(ctx, presence, err)
	}
	this.status.FoundLatest(info.Latest)

	switch {
	case presence != contracts.Present:
		if info.FullSet.IsEmpty() {
			err = fmt.Errorf("%w: release %s lists no files", contracts.ErrNothingToInstall, info.Latest)
			this.status.ErrorChecking(err)
			return err
		}
		return this.install(ctx, presence, info, true)
	case info.IsNewUpdate() && this.response.UpdateOrLaunch() == contracts.Update:
		return this.install(ctx, presence, info, false)
	default:
		return this.launch()
	}
}

func (this *Updater) install(ctx context.Context, presence contracts.Presence, info contracts.UpdateInformation, fresh bool) error {
	files := info.FileSet(fresh)
	log.Infof("updating %s to %s (%d files)", info.Current, info.Latest, files.Count())

	err := this.downloader.Download(ctx, files, info.FullSet, this.status.Downloading())
	if err != nil {
		return this.recover(ctx, presence, err)
	}
	this.store.Write(info.Latest)
	return this.launch()
}

// recover reports err and, when an installed version is still available,
// lets the user decide whether to run it anyway.
func (this *Updater) recover(ctx context.Context, presence contracts.Presence, err error) error {
	this.status.ErrorChecking(err)
	if ctx.Err() != nil || presence != contracts.Present {
		return err
	}
	log.Warnf("continuing with the installed version: %s", err)
	if this.response.LaunchOrQuit() == contracts.LaunchAnyway {
		return this.launch()
	}
	this.status.Finished()
	return nil
}

func (this *Updater) launch() error {
	this.status.Launching()
	err := this.launcher.Launch()
	this.status.Finished()
	if err != nil {
		return fmt.Errorf("launching: %w", err)
	}
	return nil
}
