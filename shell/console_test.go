package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/smarty/upkeep/contracts"
)

func TestConsoleResponseSourceFixture(t *testing.T) {
	gunit.Run(new(ConsoleResponseSourceFixture), t)
}

type ConsoleResponseSourceFixture struct {
	*gunit.Fixture
	output *bytes.Buffer
}

func (this *ConsoleResponseSourceFixture) Setup() {
	this.output = &bytes.Buffer{}
}

func (this *ConsoleResponseSourceFixture) source(policy, input string) *ConsoleResponseSource {
	return NewConsoleResponseSource(policy, strings.NewReader(input), this.output)
}

func (this *ConsoleResponseSourceFixture) TestFixedPolicies() {
	this.So(this.source(contracts.ResponsePolicyAlways, "").UpdateOrLaunch(), should.Equal, contracts.Update)
	this.So(this.source(contracts.ResponsePolicyNever, "").UpdateOrLaunch(), should.Equal, contracts.Launch)
	this.So(this.source(contracts.ResponsePolicyNever, "").LaunchOrQuit(), should.Equal, contracts.LaunchAnyway)
	this.So(this.output.Len(), should.Equal, 0)
}

func (this *ConsoleResponseSourceFixture) TestAskReadsAnswers() {
	source := this.source(contracts.ResponsePolicyAsk, "n\nyes\nno\n")

	this.So(source.UpdateOrLaunch(), should.Equal, contracts.Launch)
	this.So(source.UpdateOrLaunch(), should.Equal, contracts.Update)
	this.So(source.LaunchOrQuit(), should.Equal, contracts.Quit)
	this.So(this.output.String(), should.ContainSubstring, "Update now? [Y/n]")
}

func (this *ConsoleResponseSourceFixture) TestUnrecognizedAnswerAsksAgain() {
	source := this.source(contracts.ResponsePolicyAsk, "maybe\nN\n")

	this.So(source.UpdateOrLaunch(), should.Equal, contracts.Launch)
	this.So(strings.Count(this.output.String(), "[Y/n]"), should.Equal, 2)
}

func (this *ConsoleResponseSourceFixture) TestEmptyOrClosedInputMeansYes() {
	this.So(this.source(contracts.ResponsePolicyAsk, "\n").UpdateOrLaunch(), should.Equal, contracts.Update)
	this.So(this.source(contracts.ResponsePolicyAsk, "").LaunchOrQuit(), should.Equal, contracts.LaunchAnyway)
}

func TestConsoleStatusListenerFixture(t *testing.T) {
	gunit.Run(new(ConsoleStatusListenerFixture), t)
}

type ConsoleStatusListenerFixture struct {
	*gunit.Fixture
	hook     *test.Hook
	listener *ConsoleStatusListener
}

func (this *ConsoleStatusListenerFixture) Setup() {
	this.hook = test.NewGlobal()
	this.listener = NewConsoleStatusListener(0)
}

func (this *ConsoleStatusListenerFixture) Teardown() {
	this.hook.Reset()
}

func (this *ConsoleStatusListenerFixture) TestProgressIsAccumulated() {
	progress := this.listener.Downloading()
	progress.StartingDownload(2, contracts.Bytes(4096))
	progress.DownloadedSome(contracts.Bytes(2048))
	progress.CompletedADownload(contracts.Bytes(2048))

	this.So(this.listener.progress.Report(), should.Equal, "downloaded 2.00KB of 4.00KB (1 of 2 files)")
}

func (this *ConsoleStatusListenerFixture) TestEventsAreLogged() {
	this.listener.Checking()
	this.listener.FoundLatest(contracts.NewVersion(1, 2))
	this.listener.Finished()

	var messages []string
	for _, entry := range this.hook.AllEntries() {
		messages = append(messages, entry.Message)
	}
	this.So(messages, should.Contain, "checking for updates")
	this.So(messages, should.Contain, "latest version is 1.2")
	this.So(messages, should.Contain, "finished")
}
