package shell

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// ProcessLauncher starts the installed application in the install root with
// its output captured to stdout.txt and stderr.txt. It does not wait for the
// application to exit.
type ProcessLauncher struct {
	root      string
	command   string
	arguments []string
}

func NewProcessLauncher(root, command string, arguments ...string) *ProcessLauncher {
	return &ProcessLauncher{root: root, command: command, arguments: arguments}
}

func (this *ProcessLauncher) Launch() error {
	if this.command == "" {
		return fmt.Errorf("no launch command configured")
	}
	stdout, err := os.Create(filepath.Join(this.root, "stdout.txt"))
	if err != nil {
		return err
	}
	defer func() { _ = stdout.Close() }()
	stderr, err := os.Create(filepath.Join(this.root, "stderr.txt"))
	if err != nil {
		return err
	}
	defer func() { _ = stderr.Close() }()

	process := exec.Command(this.resolveCommand(), this.arguments...)
	process.Dir = this.root
	process.Stdout = stdout
	process.Stderr = stderr
	if err = process.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", this.command, err)
	}
	log.Infof("started %s (pid %d)", this.command, process.Process.Pid)
	return process.Process.Release()
}

// resolveCommand treats a relative path with a directory part as relative to
// the install root; bare names are looked up on PATH.
func (this *ProcessLauncher) resolveCommand() string {
	if filepath.IsAbs(this.command) || filepath.Base(this.command) == this.command {
		return this.command
	}
	return filepath.Join(this.root, this.command)
}
