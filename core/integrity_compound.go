package core

import (
	log "github.com/sirupsen/logrus"

	"github.com/smarty/upkeep/contracts"
)

// CompoundIntegrityCheck runs its checks in order and reports the first
// rejection. Cheap checks belong first.
type CompoundIntegrityCheck struct {
	checks []contracts.IntegrityCheck
}

func NewCompoundIntegrityCheck(checks ...contracts.IntegrityCheck) *CompoundIntegrityCheck {
	kept := make([]contracts.IntegrityCheck, 0, len(checks))
	for _, check := range checks {
		if check != nil {
			kept = append(kept, check)
		}
	}
	return &CompoundIntegrityCheck{checks: kept}
}

func (this *CompoundIntegrityCheck) Verify(file contracts.FileDescriptor, path string) error {
	for i, check := range this.checks {
		if err := check.Verify(file, path); err != nil {
			log.Debugf("integrity check %d of %d rejected %s: %s", i+1, len(this.checks), file.Name, err)
			return err
		}
	}
	log.Debugf("verified %s at %s", file.Name, path)
	return nil
}
