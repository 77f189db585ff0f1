package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/smarty/upkeep/contracts"
)

const (
	keyServerAddress  = "server.address"
	keyProject        = "server.project"
	keyInstallRoot    = "install.root"
	keyBinary         = "install.bin"
	keyTemporary      = "install.tmp"
	keySnapshots      = "install.snapshots"
	keyWorkers        = "download.workers"
	keyReadTimeout    = "download.read-timeout"
	keyFeedMaxElapsed = "feed.max-elapsed"
	keyFeedMaxRetries = "feed.max-retries"
	keyLaunchCommand  = "launcher.command"
	keyLaunchArgs     = "launcher.args"
	keyResponsePolicy = "response.policy"
	keyLogLevel       = "log.level"

	envPrefix         = "UPKEEP"
	defaultConfigName = "upkeep.yaml"
)

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"server":    keyServerAddress,
	"project":   keyProject,
	"root":      keyInstallRoot,
	"snapshots": keySnapshots,
	"workers":   keyWorkers,
	"policy":    keyResponsePolicy,
	"log-level": keyLogLevel,
}

func registerFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "configuration file (default <root>/"+defaultConfigName+")")
	flags.StringP("server", "s", "", "update server address, ending with a slash")
	flags.StringP("project", "p", "", "project name published on the update server")
	flags.StringP("root", "r", "", "installation root directory (default current directory)")
	flags.String("snapshots", "", "directory receiving archives of files removed by an update")
	flags.IntP("workers", "w", 0, "concurrent downloads (default number of CPUs)")
	flags.String("policy", "", "answer to update prompts: ask, always or never")
	flags.StringP("log-level", "l", "", "log level: debug, info, warn or error")
}

// loadConfig resolves configuration with the precedence
// defaults < config file < environment < flags.
func loadConfig(flags *pflag.FlagSet) (contracts.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if flag := flags.Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return contracts.Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	path, _ := flags.GetString("config")
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(v.GetString(keyInstallRoot), defaultConfigName)
	}
	if err := mergeConfigFile(v, path); err != nil {
		return contracts.Config{}, err
	}

	root, err := filepath.Abs(v.GetString(keyInstallRoot))
	if err != nil {
		return contracts.Config{}, fmt.Errorf("resolve install root: %w", err)
	}
	config := contracts.Config{
		ServerAddress:      v.GetString(keyServerAddress),
		Project:            v.GetString(keyProject),
		InstallRoot:        root,
		BinaryDirectory:    v.GetString(keyBinary),
		TemporaryDirectory: v.GetString(keyTemporary),
		SnapshotDirectory:  v.GetString(keySnapshots),
		Workers:            v.GetInt(keyWorkers),
		ReadTimeout:        v.GetDuration(keyReadTimeout),
		FeedMaxElapsed:     v.GetDuration(keyFeedMaxElapsed),
		FeedMaxRetries:     v.GetInt(keyFeedMaxRetries),
		LaunchCommand:      v.GetString(keyLaunchCommand),
		LaunchArguments:    v.GetStringSlice(keyLaunchArgs),
		ResponsePolicy:     strings.ToLower(v.GetString(keyResponsePolicy)),
		LogLevel:           v.GetString(keyLogLevel),
	}
	if config.Workers < 1 {
		config.Workers = runtime.NumCPU()
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyInstallRoot, ".")
	v.SetDefault(keyBinary, "bin")
	v.SetDefault(keyTemporary, "tmp")
	v.SetDefault(keySnapshots, "")
	v.SetDefault(keyWorkers, runtime.NumCPU())
	v.SetDefault(keyReadTimeout, contracts.FeedReadTimeout)
	v.SetDefault(keyFeedMaxElapsed, 30*time.Second)
	v.SetDefault(keyFeedMaxRetries, 5)
	v.SetDefault(keyLaunchCommand, "")
	v.SetDefault(keyLaunchArgs, []string{})
	v.SetDefault(keyResponsePolicy, contracts.ResponsePolicyAsk)
	v.SetDefault(keyLogLevel, "info")
}

func mergeConfigFile(v *viper.Viper, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
