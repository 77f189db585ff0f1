package contracts

// Release is one entry of the update feed. DiffSet lists the files changed
// relative to the release immediately before it; FullSet is the complete
// install image.
type Release struct {
	Version     Version
	Description string
	DiffSet     FileSet
	FullSet     FileSet
}

type UpdateInformation struct {
	Latest  Version
	Current Version
	DiffSet FileSet
	FullSet FileSet
}

func (this UpdateInformation) IsNewUpdate() bool {
	return this.Latest.IsGreaterThan(this.Current)
}

// FileSet selects what must be fetched: everything for a fresh (absent or
// corrupt) install, only the changed files otherwise.
func (this UpdateInformation) FileSet(fresh bool) FileSet {
	if fresh {
		return this.FullSet
	}
	return this.DiffSet
}

type Presence int

const (
	NotPresent Presence = iota
	Corrupt
	Present
)

func (this Presence) String() string {
	switch this {
	case NotPresent:
		return "not present"
	case Corrupt:
		return "corrupt"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}
