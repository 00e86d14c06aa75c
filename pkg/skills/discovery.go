package skills

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/logger"
	"github.com/pkg/errors"
)

// Discovery finds skill bundles below a set of root directories
type Discovery struct {
	roots []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithRoots sets the directories searched for bundles
func WithRoots(dirs ...string) Option {
	return func(d *Discovery) error {
		if len(dirs) == 0 {
			return errors.New("at least one root directory must be specified")
		}
		d.roots = dirs
		return nil
	}
}

// WithDefaultRoots searches the current directory and ./skills
func WithDefaultRoots() Option {
	return func(d *Discovery) error {
		d.roots = []string{".", "./skills"}
		return nil
	}
}

// NewDiscovery creates a new bundle discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		opts = []Option{WithDefaultRoots()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Roots returns the configured root directories
func (d *Discovery) Roots() []string {
	return d.roots
}

// DiscoverSkills finds every bundle that is a direct child of a root, or a
// root itself. Earlier roots win when two bundles declare the same name.
func (d *Discovery) DiscoverSkills(ctx context.Context) (map[string]*Skill, error) {
	skills := make(map[string]*Skill)

	for _, root := range d.roots {
		if skill, err := loadSkill(root); err == nil {
			addSkill(skills, skill, root)
			continue
		}
		d.discoverSkillsFromDir(ctx, root, skills)
	}

	return skills, nil
}

// discoverSkillsFromDir loads every child of dir holding a descriptor
func (d *Discovery) discoverSkillsFromDir(ctx context.Context, dir string, skills map[string]*Skill) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("dir", dir).Debug("skipping unreadable root")
		return
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skill, err := loadSkill(entryPath)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("dir", entryPath).Debug("not a loadable bundle")
			continue
		}
		addSkill(skills, skill, entryPath)
	}
}

func addSkill(skills map[string]*Skill, skill *Skill, dir string) {
	if _, exists := skills[skill.Name]; exists {
		return
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	skill.Directory = dir
	skills[skill.Name] = skill
}

// GetSkill returns a specific skill by name
func (d *Discovery) GetSkill(ctx context.Context, name string) (*Skill, error) {
	skills, err := d.DiscoverSkills(ctx)
	if err != nil {
		return nil, err
	}

	skill, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return skill, nil
}

// ListSkillNames returns the sorted names of all discovered skills
func (d *Discovery) ListSkillNames(ctx context.Context) ([]string, error) {
	skills, err := d.DiscoverSkills(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// loadSkill loads a single skill from the descriptor inside dir
func loadSkill(dir string) (*Skill, error) {
	content, err := os.ReadFile(filepath.Join(dir, DescriptorFileName))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	doc, err := ParseDocument(content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}
	if doc.MetaErr != nil {
		return nil, errors.Wrap(doc.MetaErr, "invalid frontmatter")
	}

	name := doc.Name()
	description := doc.Description()

	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Skill{
		Name:        name,
		Description: description,
		Content:     extractBodyContent(string(content)),
	}, nil
}
