package core

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/smarty/upkeep/contracts"
)

type versionFileSystem interface {
	contracts.FileReader
	contracts.FileWriter
}

// VersionStore owns the marker file recording which version is installed.
type VersionStore struct {
	path       string
	fileSystem versionFileSystem

	lock     sync.Mutex
	presence contracts.Presence
	version  contracts.Version
}

func NewVersionStore(path string, fileSystem versionFileSystem) *VersionStore {
	return &VersionStore{path: path, fileSystem: fileSystem, presence: contracts.NotPresent}
}

func (this *VersionStore) Load() contracts.Presence {
	presence, version := this.read()

	this.lock.Lock()
	defer this.lock.Unlock()
	this.presence, this.version = presence, version
	return presence
}

func (this *VersionStore) read() (contracts.Presence, contracts.Version) {
	raw, err := this.fileSystem.ReadFile(this.path)
	if errors.Is(err, fs.ErrNotExist) {
		return contracts.NotPresent, contracts.Version{}
	}
	if err != nil {
		log.Warnf("reading version marker %s: %s", this.path, err)
		return contracts.Corrupt, contracts.Version{}
	}

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	var lines []string
	for len(lines) < 2 && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) < 2 {
		log.Warnf("version marker %s is truncated", this.path)
		return contracts.Corrupt, contracts.Version{}
	}

	checksum, err := strconv.ParseInt(lines[1], 10, 32)
	if err != nil || int32(checksum) != Checksum(lines[0]) {
		log.Warnf("version marker %s fails its checksum", this.path)
		return contracts.Corrupt, contracts.Version{}
	}
	version, err := contracts.ParseVersion(lines[0])
	if err != nil {
		log.Warnf("version marker %s: %s", this.path, err)
		return contracts.Corrupt, contracts.Version{}
	}
	return contracts.Present, version
}

// Write records version as installed. A failed write leaves the store
// Corrupt and is only logged; the next Load detects it again.
func (this *VersionStore) Write(version contracts.Version) {
	text := version.String()
	content := fmt.Sprintf("%s\n%d\n", text, Checksum(text))
	err := this.fileSystem.WriteFile(this.path, []byte(content))

	this.lock.Lock()
	defer this.lock.Unlock()
	if err != nil {
		log.Warnf("writing version marker %s: %s", this.path, err)
		this.presence, this.version = contracts.Corrupt, contracts.Version{}
		return
	}
	this.presence, this.version = contracts.Present, version
}

func (this *VersionStore) Presence() contracts.Presence {
	this.lock.Lock()
	defer this.lock.Unlock()
	return this.presence
}

func (this *VersionStore) Version() (contracts.Version, error) {
	this.lock.Lock()
	defer this.lock.Unlock()
	if this.presence != contracts.Present {
		return contracts.Version{}, fmt.Errorf("%w: installed version is %s", contracts.ErrCorruptLocalState, this.presence)
	}
	return this.version, nil
}

func (this *VersionStore) VersionOr(fallback contracts.Version) contracts.Version {
	version, err := this.Version()
	if err != nil {
		return fallback
	}
	return version
}
