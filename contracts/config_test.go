package contracts

import (
	"path/filepath"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestConfigFixture(t *testing.T) {
	gunit.Run(new(ConfigFixture), t)
}

type ConfigFixture struct {
	*gunit.Fixture
	config Config
}

func (this *ConfigFixture) Setup() {
	this.config = Config{
		ServerAddress:      "http://updates.example.com/",
		Project:            "demo",
		InstallRoot:        "/opt/demo",
		BinaryDirectory:    "bin",
		TemporaryDirectory: "tmp",
		Workers:            4,
		ResponsePolicy:     ResponsePolicyAsk,
	}
}

func (this *ConfigFixture) TestValidConfig() {
	this.So(this.config.Validate(), should.BeNil)
}

func (this *ConfigFixture) TestMissingFieldsAreRejected() {
	for _, mutate := range []func(*Config){
		func(c *Config) { c.ServerAddress = "" },
		func(c *Config) { c.Project = "" },
		func(c *Config) { c.InstallRoot = "" },
		func(c *Config) { c.Workers = 0 },
		func(c *Config) { c.ResponsePolicy = "sometimes" },
	} {
		config := this.config
		mutate(&config)
		this.So(config.Validate(), should.NotBeNil)
	}
}

func (this *ConfigFixture) TestFeedAddress() {
	this.So(this.config.ComposeFeedAddress(), should.Equal, "http://updates.example.com/1/project/demo/demo.json")
}

func (this *ConfigFixture) TestRelativeDirectoriesResolveBelowInstallRoot() {
	this.So(this.config.MarkerPath(), should.Equal, filepath.Join("/opt/demo", "version"))
	this.So(this.config.BinaryPath(), should.Equal, filepath.Join("/opt/demo", "bin"))
	this.So(this.config.TemporaryPath(), should.Equal, filepath.Join("/opt/demo", "tmp"))
	this.So(this.config.SnapshotPath(), should.BeEmpty)
}

func (this *ConfigFixture) TestAbsoluteDirectoriesAreKept() {
	this.config.SnapshotDirectory = "/var/snapshots"
	this.config.TemporaryDirectory = "/var/tmp/demo"

	this.So(this.config.SnapshotPath(), should.Equal, "/var/snapshots")
	this.So(this.config.TemporaryPath(), should.Equal, "/var/tmp/demo")
}
