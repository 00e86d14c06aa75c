package skills

import (
	"github.com/gobwas/glob"
)

// DeniedNames are files and directories that must not ship inside a bundle
var DeniedNames = []string{
	"README.md",
	"CHANGELOG.md",
	"INSTALLATION.md",
	"QUICK_REFERENCE.md",
	"CONTRIBUTING.md",
	".git",
	"__pycache__",
	"node_modules",
	".DS_Store",
	"Thumbs.db",
}

// TempFilePatterns match editor and tool leftovers
var TempFilePatterns = []string{"*.tmp", "*.bak", "*.swp", "*~"}

// documentationNames are the deny-listed names that are plain docs rather
// than tool or OS artifacts
var documentationNames = map[string]bool{
	"README.md":       true,
	"CHANGELOG.md":    true,
	"INSTALLATION.md": true,
}

// Denylist matches file names against the deny-list and temp-file patterns
type Denylist struct {
	names map[string]bool
	globs []glob.Glob
	raw   []string
}

// NewDenylist compiles a deny-list. Extra names and patterns are added on
// top of DeniedNames and TempFilePatterns.
func NewDenylist(extraNames, extraPatterns []string) *Denylist {
	d := &Denylist{names: make(map[string]bool)}
	for _, n := range append(append([]string{}, DeniedNames...), extraNames...) {
		d.names[n] = true
	}
	for _, p := range append(append([]string{}, TempFilePatterns...), extraPatterns...) {
		g, err := glob.Compile(p)
		if err != nil {
			continue
		}
		d.globs = append(d.globs, g)
		d.raw = append(d.raw, p)
	}
	return d
}

// DefaultDenylist returns the deny-list shared by validation and packaging
func DefaultDenylist() *Denylist {
	return NewDenylist(nil, nil)
}

// MatchName reports whether a single path component is deny-listed
func (d *Denylist) MatchName(name string) bool {
	return d.names[name]
}

// MatchTemp reports whether a file name matches a temp-file pattern
func (d *Denylist) MatchTemp(name string) bool {
	for _, g := range d.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Match reports whether a file name is excluded by either rule
func (d *Denylist) Match(name string) bool {
	return d.MatchName(name) || d.MatchTemp(name)
}

// Patterns returns the temp-file patterns in compile order
func (d *Denylist) Patterns() []string {
	return d.raw
}

// IsDocumentationName reports whether a deny-listed name is a stray doc file
func IsDocumentationName(name string) bool {
	return documentationNames[name]
}
