package contracts

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

type Config struct {
	ServerAddress      string
	Project            string
	InstallRoot        string
	BinaryDirectory    string
	TemporaryDirectory string
	SnapshotDirectory  string
	Workers            int
	ReadTimeout        time.Duration
	FeedMaxElapsed     time.Duration
	FeedMaxRetries     int
	LaunchCommand      string
	LaunchArguments    []string
	ResponsePolicy     string
	LogLevel           string
}

const (
	ResponsePolicyAsk    = "ask"
	ResponsePolicyAlways = "always"
	ResponsePolicyNever  = "never"
)

func (this Config) Validate() error {
	if this.ServerAddress == "" {
		return errors.New("server address is required")
	}
	if this.Project == "" {
		return errors.New("project is required")
	}
	if this.InstallRoot == "" {
		return errors.New("install root is required")
	}
	if this.Workers < 1 {
		return fmt.Errorf("at least one download worker is required (got %d)", this.Workers)
	}
	switch this.ResponsePolicy {
	case ResponsePolicyAsk, ResponsePolicyAlways, ResponsePolicyNever:
	default:
		return fmt.Errorf("unknown response policy: %q", this.ResponsePolicy)
	}
	return nil
}

// ComposeFeedAddress appends the feed path to the server address verbatim,
// so the address is expected to end with a slash.
func (this Config) ComposeFeedAddress() string {
	return fmt.Sprintf("%s%d/project/%s/%s.json", this.ServerAddress, FeedFormatVersion, this.Project, this.Project)
}

func (this Config) MarkerPath() string {
	return filepath.Join(this.InstallRoot, "version")
}

func (this Config) BinaryPath() string    { return this.resolve(this.BinaryDirectory) }
func (this Config) TemporaryPath() string { return this.resolve(this.TemporaryDirectory) }

func (this Config) SnapshotPath() string {
	if this.SnapshotDirectory == "" {
		return ""
	}
	return this.resolve(this.SnapshotDirectory)
}

func (this Config) resolve(directory string) string {
	if filepath.IsAbs(directory) {
		return directory
	}
	return filepath.Join(this.InstallRoot, directory)
}
