// Package core provides the business logic for Magpie.
// It has zero UI dependencies and is independently testable.
package core

// ResourceKind selects which catalog, local-path conventions, and
// sparse-checkout pattern shape apply to a run.
type ResourceKind int

const (
	// KindSkill installs directory-scoped skill bundles.
	KindSkill ResourceKind = iota
	// KindSubagent installs single-file subagent definitions.
	KindSubagent
)

// String returns the singular label for the kind.
func (k ResourceKind) String() string {
	return k.spec().label
}

// Plural returns the plural label for the kind ("skills", "subagents").
func (k ResourceKind) Plural() string {
	return k.spec().plural
}

// kindSpec carries the per-kind conventions. The catalogs are fixed:
// they are not user-configurable.
type kindSpec struct {
	label  string
	plural string

	// Upstream catalog repository.
	owner string
	repo  string

	// Skill identifiers are top-level directories; subagent identifiers
	// are top-level files ending in fileSuffix (suffix kept in the id).
	dirScoped  bool
	fileSuffix string

	// descriptorFile is the per-item metadata file for directory-scoped
	// kinds. File-scoped kinds carry their metadata in the item itself.
	descriptorFile string

	// fenceTag labels the fenced code region that may wrap the
	// frontmatter block in descriptor files.
	fenceTag string

	// localPaths are the conventional project-relative install
	// locations, in discovery order. The first is the default target.
	localPaths []string

	// excludedDirs are top-level catalog directories that are not
	// installable items.
	excludedDirs map[string]bool
}

var kindSpecs = map[ResourceKind]kindSpec{
	KindSkill: {
		label:          "skill",
		plural:         "skills",
		owner:          "anthropics",
		repo:           "skills",
		dirScoped:      true,
		descriptorFile: "SKILL.md",
		fenceTag:       "skill",
		localPaths:     []string{".claude/skills", "skills"},
		excludedDirs: map[string]bool{
			"docs":     true,
			"examples": true,
			"scripts":  true,
			"template": true,
			"tests":    true,
		},
	},
	KindSubagent: {
		label:      "subagent",
		plural:     "subagents",
		owner:      "wshobson",
		repo:       "agents",
		fileSuffix: ".md",
		fenceTag:   "subagent",
		localPaths: []string{".claude/agents", "agents"},
	},
}

func (k ResourceKind) spec() kindSpec {
	return kindSpecs[k]
}

// CatalogRepo returns the owner and repository name of the fixed
// upstream catalog for the kind.
func (k ResourceKind) CatalogRepo() (owner, repo string) {
	s := k.spec()
	return s.owner, s.repo
}

// DefaultLocalPath returns the conventional project-relative install
// location for the kind.
func (k ResourceKind) DefaultLocalPath() string {
	return k.spec().localPaths[0]
}

// LocalPaths returns the conventional project-relative locations
// checked during installation discovery, in order.
func (k ResourceKind) LocalPaths() []string {
	return append([]string(nil), k.spec().localPaths...)
}

// ItemDescriptor describes one installable item from a catalog.
// ID is the stable identifier used as the sparse-checkout pattern key:
// a folder name for skills, a file name (with suffix) for subagents.
// Catalog listing order is preserved through the selection UI.
type ItemDescriptor struct {
	ID          string
	DisplayName string
	Description string
}

// ItemMetadata is the result of an on-demand description fetch.
type ItemMetadata struct {
	DisplayName string
	Description string
}

// InstallationTarget describes the path an apply operates on. It is
// created transiently per run; the durable state lives entirely in the
// working copy's own sparse-checkout configuration.
type InstallationTarget struct {
	Path   string
	Kind   ResourceKind
	Exists bool
	IsRepo bool
}

// Installation is the inspector's view of a target path: whether a
// managed working copy is present there and which identifiers its
// persisted pattern list decodes to.
type Installation struct {
	Path        string
	Present     bool
	Identifiers []string
}

// SelectionDiff partitions a previously-installed identifier set and a
// newly chosen one into added, removed, and unchanged. The three sets
// are pairwise disjoint; added+unchanged equals the new set and
// removed+unchanged equals the old one.
type SelectionDiff struct {
	Added     []string
	Removed   []string
	Unchanged []string
}

// Empty reports whether the diff changes nothing.
func (d SelectionDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}
