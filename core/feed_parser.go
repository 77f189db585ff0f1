package core

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/smarty/upkeep/contracts"
)

// ParseFeed decodes a feed document and returns its releases newest first.
func ParseFeed(reader io.Reader) ([]contracts.Release, error) {
	var document contracts.FeedDocument
	if err := json.NewDecoder(reader).Decode(&document); err != nil {
		return nil, fmt.Errorf("%w: decoding feed: %w", contracts.ErrFormat, err)
	}
	if document.Version != contracts.FeedFormatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d",
			contracts.ErrFormatVersionMismatch, document.Version, contracts.FeedFormatVersion)
	}

	releases := make([]contracts.Release, 0, len(document.Versions))
	for i, item := range document.Versions {
		if item.Number.Len() == 0 {
			return nil, fmt.Errorf("%w: release %d has no number", contracts.ErrFormat, i)
		}
		diff, err := parseFeedFiles(item.Diff)
		if err != nil {
			return nil, fmt.Errorf("release %s diff: %w", item.Number, err)
		}
		full, err := parseFeedFiles(item.Full)
		if err != nil {
			return nil, fmt.Errorf("release %s full: %w", item.Number, err)
		}
		releases = append(releases, contracts.Release{
			Version:     item.Number,
			Description: item.Description,
			DiffSet:     diff,
			FullSet:     full,
		})
	}

	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].Version.IsGreaterThan(releases[j].Version)
	})
	return releases, nil
}

func parseFeedFiles(items []contracts.FeedFile) (contracts.FileSet, error) {
	files := make([]contracts.FileDescriptor, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		size, err := contracts.ParseMemoryUnit(item.Size)
		if err != nil {
			return contracts.FileSet{}, fmt.Errorf("%s: %w", item.Name, err)
		}
		if !filepath.IsLocal(filepath.FromSlash(item.Name)) {
			return contracts.FileSet{}, fmt.Errorf("%w: file name %q escapes the install directory", contracts.ErrFormat, item.Name)
		}
		if _, found := seen[item.Name]; found {
			return contracts.FileSet{}, fmt.Errorf("%w: file name %q is listed twice", contracts.ErrFormat, item.Name)
		}
		seen[item.Name] = struct{}{}
		files = append(files, contracts.FileDescriptor{
			Name: item.Name,
			Size: size,
			URL:  item.URL,
			MD5:  item.MD5,
			SHA1: item.SHA1,
		})
	}
	return contracts.NewFileSet(files...), nil
}
