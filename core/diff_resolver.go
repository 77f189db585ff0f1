package core

import "github.com/smarty/upkeep/contracts"

// ResolveUpdate computes what it takes to go from current to the newest of
// releases, which must be sorted newest first. The diff set accumulates the
// changed files of every release newer than current, keeping only entries that
// still match the latest full image and the newest accepted entry per name.
func ResolveUpdate(releases []contracts.Release, current contracts.Version) contracts.UpdateInformation {
	if len(releases) == 0 {
		return contracts.UpdateInformation{
			Latest:  current,
			Current: current,
			DiffSet: contracts.NewFileSet(),
			FullSet: contracts.NewFileSet(),
		}
	}

	latest := releases[0]
	accepted := make(map[string]struct{})
	var diff []contracts.FileDescriptor
	for _, release := range releases {
		if !release.Version.IsGreaterThan(current) {
			break
		}
		for _, file := range release.DiffSet.Files() {
			if _, found := accepted[file.Name]; found {
				continue
			}
			if latest.FullSet.Contains(file) {
				accepted[file.Name] = struct{}{}
				diff = append(diff, file)
			}
		}
	}

	return contracts.UpdateInformation{
		Latest:  latest.Version,
		Current: current,
		DiffSet: contracts.NewFileSet(diff...),
		FullSet: latest.FullSet,
	}
}
