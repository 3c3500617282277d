package core

import (
	"os"
	"path/filepath"
	"strings"
)

// Inspector reads the local state of installation targets. It never
// touches the network: presence and installed identifiers come
// entirely from the working copy's persisted pattern list.
type Inspector struct{}

// NewInspector creates an Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Detect reports whether path holds an existing installation of the
// given kind, and which identifiers it contains. A target counts as
// present only if it is a version-controlled working copy AND a
// non-empty set of kind-appropriate patterns decodes from its pattern
// file: a repository with zero decodable patterns is treated as fresh.
// Read failures (missing file, permissions) also mean "not present" —
// detection is a best-effort discovery aid, never a precondition for
// anything destructive.
func (ins *Inspector) Detect(path string, kind ResourceKind) Installation {
	result := Installation{Path: path}

	if !dirExists(filepath.Join(path, ".git")) {
		return result
	}

	data, err := os.ReadFile(filepath.Join(path, filepath.FromSlash(sparsePatternFile)))
	if err != nil {
		return result
	}

	ids := DecodePatterns(kind, strings.Split(string(data), "\n"))
	if len(ids) == 0 {
		return result
	}

	result.Present = true
	result.Identifiers = ids
	return result
}

// Discover probes the conventional locations for the kind under root
// and returns one entry per path that qualifies as present, in
// convention order. Used to surface installations the user did not
// explicitly name.
func (ins *Inspector) Discover(root string, kind ResourceKind) []Installation {
	var found []Installation
	for _, rel := range kind.LocalPaths() {
		inst := ins.Detect(filepath.Join(root, rel), kind)
		if inst.Present {
			found = append(found, inst)
		}
	}
	return found
}
