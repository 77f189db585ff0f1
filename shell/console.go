package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/smarty/upkeep/contracts"
)

type ConsoleStatusListener struct {
	progress *ConsoleProgressListener
}

func NewConsoleStatusListener(reportInterval time.Duration) *ConsoleStatusListener {
	return &ConsoleStatusListener{progress: NewConsoleProgressListener(reportInterval)}
}

func (this *ConsoleStatusListener) Checking()  { log.Info("checking for updates") }
func (this *ConsoleStatusListener) Launching() { log.Info("launching") }

func (this *ConsoleStatusListener) FoundLatest(latest contracts.Version) {
	log.Infof("latest version is %s", latest)
}

func (this *ConsoleStatusListener) ErrorChecking(err error) {
	log.Errorf("update failed: %s", err)
}

func (this *ConsoleStatusListener) Downloading() contracts.ProgressListener {
	return this.progress
}

func (this *ConsoleStatusListener) Finished() {
	this.progress.Close()
	log.Info("finished")
}

//////////////////////////////////////////////////////////////////////

// ConsoleProgressListener logs transfer progress on a fixed interval rather
// than on every event.
type ConsoleProgressListener struct {
	lock     sync.Mutex
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}

	files      int
	completed  int
	verified   int
	total      contracts.MemoryUnit
	downloaded contracts.MemoryUnit
}

func NewConsoleProgressListener(interval time.Duration) *ConsoleProgressListener {
	return &ConsoleProgressListener{interval: interval}
}

func (this *ConsoleProgressListener) StartingDownload(numberOfFiles int, totalSize contracts.MemoryUnit) {
	this.lock.Lock()
	this.files, this.completed, this.verified = numberOfFiles, 0, 0
	this.total, this.downloaded = totalSize, 0
	this.lock.Unlock()

	log.Infof("downloading %d files (%s)", numberOfFiles, totalSize)
	this.startReporting()
}

func (this *ConsoleProgressListener) DownloadedSome(amount contracts.MemoryUnit) {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.downloaded = this.downloaded.Plus(amount)
}

func (this *ConsoleProgressListener) CompletedADownload(contracts.MemoryUnit) {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.completed++
}

func (this *ConsoleProgressListener) StartingVerify(numberOfFiles int) {
	this.stopReporting()
	this.reportProgress()
	log.Infof("verifying %d files", numberOfFiles)
}

func (this *ConsoleProgressListener) CompletedAVerify() {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.verified++
}

func (this *ConsoleProgressListener) Close() {
	this.stopReporting()
}

func (this *ConsoleProgressListener) Report() string {
	this.lock.Lock()
	defer this.lock.Unlock()
	return fmt.Sprintf("downloaded %s of %s (%d of %d files)", this.downloaded, this.total, this.completed, this.files)
}

func (this *ConsoleProgressListener) reportProgress() {
	log.Info(this.Report())
}

func (this *ConsoleProgressListener) startReporting() {
	this.stopReporting()
	if this.interval <= 0 {
		return
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	ticker, done := time.NewTicker(this.interval), make(chan struct{})
	this.ticker, this.done = ticker, done
	go func() {
		for {
			select {
			case <-ticker.C:
				this.reportProgress()
			case <-done:
				return
			}
		}
	}()
}

func (this *ConsoleProgressListener) stopReporting() {
	this.lock.Lock()
	defer this.lock.Unlock()
	if this.ticker == nil {
		return
	}
	this.ticker.Stop()
	close(this.done)
	this.ticker, this.done = nil, nil
}

//////////////////////////////////////////////////////////////////////

// ConsoleResponseSource answers the session's questions according to a policy:
// "always" and "never" decide updates without asking, "ask" prompts on output
// and reads y/n from input. An empty answer or closed input means yes.
type ConsoleResponseSource struct {
	policy string
	input  *bufio.Reader
	output io.Writer
}

func NewConsoleResponseSource(policy string, input io.Reader, output io.Writer) *ConsoleResponseSource {
	return &ConsoleResponseSource{policy: policy, input: bufio.NewReader(input), output: output}
}

func (this *ConsoleResponseSource) UpdateOrLaunch() contracts.UpdateResponse {
	switch this.policy {
	case contracts.ResponsePolicyAlways:
		return contracts.Update
	case contracts.ResponsePolicyNever:
		return contracts.Launch
	}
	if this.confirm("A new version is available. Update now?") {
		return contracts.Update
	}
	return contracts.Launch
}

func (this *ConsoleResponseSource) LaunchOrQuit() contracts.LaunchResponse {
	if this.policy != contracts.ResponsePolicyAsk {
		return contracts.LaunchAnyway
	}
	if this.confirm("Launch the installed version anyway?") {
		return contracts.LaunchAnyway
	}
	return contracts.Quit
}

func (this *ConsoleResponseSource) confirm(question string) bool {
	for {
		_, _ = fmt.Fprintf(this.output, "%s [Y/n] ", question)
		line, err := this.input.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "y", "yes":
			return true
		case "n", "no":
			return false
		}
		if err != nil {
			return true
		}
	}
}
