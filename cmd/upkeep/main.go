package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smarty/upkeep/contracts"
	"github.com/smarty/upkeep/core"
	"github.com/smarty/upkeep/shell"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand(input io.Reader, output io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "upkeep",
		Short:        "Keeps a local installation up to date and launches it",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := prepare(cmd)
			if err != nil {
				return err
			}
			return newUpdater(config, input, output).Run(cmd.Context())
		},
	}
	root.SetIn(input)
	root.SetOut(output)
	registerFlags(root.PersistentFlags())
	root.AddCommand(newCheckCommand(), newVersionCommand())
	return root
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Reports whether an update is available without installing it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := prepare(cmd)
			if err != nil {
				return err
			}
			return check(cmd.Context(), config, cmd.OutOrStdout())
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of upkeep",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "upkeep [%s]\n", ldflagsSoftwareVersion)
		},
	}
}

func prepare(cmd *cobra.Command) (contracts.Config, error) {
	config, err := loadConfig(cmd.Flags())
	if err != nil {
		return config, err
	}
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		return config, err
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return config, nil
}

func check(ctx context.Context, config contracts.Config, output io.Writer) error {
	fileSystem := shell.NewDiskFileSystem()
	store := core.NewVersionStore(config.MarkerPath(), fileSystem)
	feed := newFeedClient(config)
	feed.Begin(ctx)
	presence := store.Load()

	info, err := feed.Resolve(ctx, store.VersionOr(contracts.NewVersion(0)))
	if err != nil {
		return err
	}
	files := info.FileSet(presence != contracts.Present)
	_, _ = fmt.Fprintf(output, "installed: %s (%s)\n", info.Current, presence)
	_, _ = fmt.Fprintf(output, "latest:    %s\n", info.Latest)
	_, _ = fmt.Fprintf(output, "diff:      %d files (%s)\n", info.DiffSet.Count(), info.DiffSet.TotalSize())
	_, _ = fmt.Fprintf(output, "full:      %d files (%s)\n", info.FullSet.Count(), info.FullSet.TotalSize())
	if presence != contracts.Present || info.IsNewUpdate() {
		_, _ = fmt.Fprintf(output, "update available: %d files (%s) to download\n", files.Count(), files.TotalSize())
	} else {
		_, _ = fmt.Fprintln(output, "up to date")
	}
	return nil
}

func newFeedClient(config contracts.Config) *core.FeedClient {
	client := shell.NewHTTPClient(config.ReadTimeout)
	return core.NewFeedClient(client, config.ComposeFeedAddress(), userAgent(), config.FeedMaxElapsed, config.FeedMaxRetries)
}

func newUpdater(config contracts.Config, input io.Reader, output io.Writer) *core.Updater {
	fileSystem := shell.NewDiskFileSystem()
	integrity := core.NewCompoundIntegrityCheck(
		core.NewFileSizeIntegrityCheck(fileSystem),
		core.NewFileDigestIntegrityCheck(fileSystem),
	)
	downloader := core.NewDownloader(shell.NewHTTPClient(config.ReadTimeout), fileSystem, integrity, shell.NewTarGzArchiver(), config)
	return core.NewUpdater(
		newFeedClient(config),
		core.NewVersionStore(config.MarkerPath(), fileSystem),
		downloader,
		shell.NewConsoleStatusListener(progressInterval),
		shell.NewConsoleResponseSource(config.ResponsePolicy, input, output),
		shell.NewProcessLauncher(config.InstallRoot, config.LaunchCommand, config.LaunchArguments...),
	)
}

func userAgent() string {
	return "upkeep/" + ldflagsSoftwareVersion
}

const progressInterval = 2 * time.Second

var ldflagsSoftwareVersion = "debug"
