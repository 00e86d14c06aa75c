// Package validator runs the ordered structural checks on a skill bundle.
// Checks never abort each other: every finding is collected so a single run
// reports the complete set.
package validator

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/logger"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/skills"
	"github.com/pkg/errors"
	"mvdan.cc/sh/v3/syntax"
)

var todoPattern = regexp.MustCompile(`\[TODO.*?\]|TODO:`)

// Validator checks bundles against the structural rules
type Validator struct {
	heuristics skills.Heuristics
	denylist   *skills.Denylist
}

// Option configures a Validator
type Option func(*Validator)

// WithHeuristics replaces the default phrase sets and thresholds
func WithHeuristics(h skills.Heuristics) Option {
	return func(v *Validator) {
		v.heuristics = h
	}
}

// WithDenylist replaces the default deny-list
func WithDenylist(d *skills.Denylist) Option {
	return func(v *Validator) {
		v.denylist = d
	}
}

// New creates a Validator
func New(opts ...Option) *Validator {
	v := &Validator{
		heuristics: skills.DefaultHeuristics(),
		denylist:   skills.DefaultDenylist(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate is a shortcut for New(opts...).Validate(ctx, bundlePath)
func Validate(ctx context.Context, bundlePath string, opts ...Option) *Result {
	return New(opts...).Validate(ctx, bundlePath)
}

type run struct {
	h          skills.Heuristics
	deny       *skills.Denylist
	dir        string
	descriptor string
	found      bool
	fm         *skills.Frontmatter
	body       string
	hasBody    bool
	result     *Result
}

// Validate checks the bundle at bundlePath. A missing or non-directory path
// is the only condition that stops the remaining checks.
func (v *Validator) Validate(ctx context.Context, bundlePath string) *Result {
	dir, err := skills.ResolveDir(bundlePath)
	result := &Result{Path: dir}
	if err != nil {
		result.add(SeverityError, StageStructure, "%s", err.Error())
		result.finish()
		result.Summary = err.Error()
		return result
	}

	ctx = logger.WithBundle(ctx, dir)
	r := &run{
		h:      v.heuristics,
		deny:   v.denylist,
		dir:    dir,
		result: result,
	}

	stages := []struct {
		stage Stage
		fn    func()
	}{
		{StageStructure, r.checkStructure},
		{StageFrontmatter, r.checkFrontmatter},
		{StageDescription, r.checkDescription},
		{StageBody, r.checkBody},
		{StageScripts, r.checkScripts},
		{StageReferences, r.checkReferences},
		{StageAssets, r.checkAssets},
		{StageFiles, r.checkFiles},
	}
	for _, s := range stages {
		before := len(result.Findings)
		s.fn()
		logger.G(ctx).WithField("check", string(s.stage)).
			WithField("findings", len(result.Findings)-before).
			Debug("check complete")
	}

	result.finish()
	logger.G(ctx).WithField("valid", result.Valid).Debug(result.Summary)
	return result
}

func (r *run) errorf(stage Stage, format string, args ...any) {
	r.result.add(SeverityError, stage, format, args...)
}

func (r *run) warnf(stage Stage, format string, args ...any) {
	r.result.add(SeverityWarning, stage, format, args...)
}

func (r *run) passf(stage Stage, format string, args ...any) {
	r.result.add(SeverityPass, stage, format, args...)
}

func (r *run) checkStructure() {
	content, err := os.ReadFile(filepath.Join(r.dir, skills.DescriptorFileName))
	if err != nil {
		if os.IsNotExist(err) {
			r.errorf(StageStructure, "%s not found", skills.DescriptorFileName)
			return
		}
		r.errorf(StageStructure, "failed to read %s: %v", skills.DescriptorFileName, err)
		return
	}
	r.found = true
	r.descriptor = string(content)
	r.passf(StageStructure, "%s exists", skills.DescriptorFileName)
}

func (r *run) checkFrontmatter() {
	if !r.found {
		return
	}

	fm, err := skills.ParseFrontmatter(r.descriptor)
	if !errors.Is(err, skills.ErrNoFrontmatter) && !errors.Is(err, skills.ErrUnterminatedFrontmatter) {
		_, body, _ := skills.SplitFrontmatter(r.descriptor)
		r.body = strings.TrimSpace(body)
		r.hasBody = true
	}
	if err != nil {
		r.errorf(StageFrontmatter, "%v", err)
		return
	}
	r.fm = fm
	r.passf(StageFrontmatter, "Frontmatter is valid YAML")

	var unknown []string
	for _, key := range fm.Keys {
		if !skills.IsAllowedFrontmatterKey(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		r.errorf(StageFrontmatter, "Unrecognized frontmatter keys: %s", strings.Join(unknown, ", "))
	}

	r.checkName()

	if isBlank(fm.Fields["description"]) {
		r.errorf(StageFrontmatter, "Frontmatter field 'description' is required")
	}
}

func (r *run) checkName() {
	raw := r.fm.Fields["name"]
	if isBlank(raw) {
		r.errorf(StageFrontmatter, "Frontmatter field 'name' is required")
		return
	}

	name, ok := raw.(string)
	if !ok {
		r.errorf(StageFrontmatter, "Field 'name' must be a string, not %s", skills.TypeName(raw))
		return
	}

	name = strings.TrimSpace(name)
	if err := skills.ValidateName(name); err != nil {
		r.errorf(StageFrontmatter, "Invalid name: %v", err)
		return
	}

	if dirName := filepath.Base(r.dir); name != dirName {
		r.warnf(StageFrontmatter, "Name '%s' does not match directory '%s'", name, dirName)
		return
	}
	r.passf(StageFrontmatter, "Valid name: %s", name)
}

func (r *run) checkDescription() {
	if r.fm == nil {
		return
	}

	raw := r.fm.Fields["description"]
	if isBlank(raw) {
		return
	}

	description, ok := raw.(string)
	if !ok {
		r.errorf(StageDescription, "Description must be a string, not %s", skills.TypeName(raw))
		return
	}
	description = strings.TrimSpace(description)

	length := utf8.RuneCountInString(description)
	switch {
	case length > r.h.MaxDescriptionChars:
		r.errorf(StageDescription, "Description is too long (%d characters). Maximum: %d", length, r.h.MaxDescriptionChars)
	case length < r.h.ShortDescriptionChars:
		r.warnf(StageDescription, "Description is very short. Consider adding more activation details")
	default:
		r.passf(StageDescription, "Description length OK (%d characters)", length)
	}

	if strings.ContainsAny(description, "<>") {
		r.errorf(StageDescription, "Description cannot contain < or >")
	}
	if strings.Contains(description, "[TODO") || strings.Contains(description, "TODO:") {
		r.errorf(StageDescription, "Description contains an unresolved TODO")
	}

	if skills.ContainsAny(description, r.h.ActivationPhrases) || skills.ContainsAny(description, r.h.ExamplePhrases) {
		r.passf(StageDescription, "Description appears to have activation scenarios")
	} else {
		r.warnf(StageDescription, "Description may not have clear activation scenarios")
	}
}

func (r *run) checkBody() {
	if !r.hasBody {
		return
	}

	if strings.HasPrefix(r.body, "#") {
		r.passf(StageBody, "Body has a main title")
	} else {
		r.warnf(StageBody, "Body should start with a title (#)")
	}

	if todos := todoPattern.FindAllString(r.body, -1); len(todos) > 0 {
		r.warnf(StageBody, "Body contains %d unresolved TODO(s)", len(todos))
	}

	lines := len(strings.Split(r.body, "\n"))
	if lines > r.h.MaxBodyLines {
		r.warnf(StageBody, "Body is too long (%d lines). Consider moving details to %s/", lines, skills.ReferencesDir)
	} else {
		r.passf(StageBody, "Body length OK (%d lines)", lines)
	}

	doc, err := skills.ParseDocument([]byte(r.descriptor))
	if err != nil {
		return
	}
	for _, heading := range doc.Headings {
		if skills.ContainsAny(heading.Text, r.h.WhenToUsePhrases) {
			r.warnf(StageBody, "Section '%s' belongs in the frontmatter description, not in the body", heading.Text)
			break
		}
	}
}

func (r *run) checkScripts() {
	dir := filepath.Join(r.dir, skills.ScriptsDir)
	scripts, err := skills.ListFiles(dir, "*.py", "*.sh")
	if err != nil {
		r.warnf(StageScripts, "failed to list %s/: %v", skills.ScriptsDir, err)
		return
	}

	for _, name := range scripts {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			r.warnf(StageScripts, "%s: failed to read: %v", name, err)
			continue
		}
		text := string(content)
		ext := path.Ext(name)

		if !strings.HasPrefix(text, "#!/") {
			interpreter := "python3"
			if ext == ".sh" {
				interpreter = "bash"
			}
			r.warnf(StageScripts, "%s: missing shebang (#!/usr/bin/env %s)", name, interpreter)
		}

		switch ext {
		case ".py":
			window := text
			if len(window) > r.h.DocstringWindowBytes {
				window = window[:r.h.DocstringWindowBytes]
			}
			if !strings.Contains(window, `"""`) {
				r.warnf(StageScripts, "%s: missing docstring", name)
			}
		case ".sh":
			parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
			if _, err := parser.Parse(strings.NewReader(text), name); err != nil {
				r.warnf(StageScripts, "%s: shell syntax error: %v", name, err)
			}
		}

		if r.h.IsPlaceholder(name, text) {
			r.warnf(StageScripts, "%s: looks like a placeholder or example", name)
		}
	}

	if len(scripts) > 0 {
		r.passf(StageScripts, "Found %d script(s)", len(scripts))
	}
}

func (r *run) checkReferences() {
	dir := filepath.Join(r.dir, skills.ReferencesDir)
	refs, err := skills.ListFiles(dir, "*.md")
	if err != nil {
		r.warnf(StageReferences, "failed to list %s/: %v", skills.ReferencesDir, err)
		return
	}

	for _, name := range refs {
		if !strings.Contains(r.descriptor, name) {
			r.warnf(StageReferences, "%s/%s: does not appear to be referenced in %s",
				skills.ReferencesDir, name, skills.DescriptorFileName)
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			r.warnf(StageReferences, "%s/%s: failed to read: %v", skills.ReferencesDir, name, err)
			continue
		}
		if r.h.IsPlaceholder(name, string(content)) {
			r.warnf(StageReferences, "%s/%s: looks like a placeholder or example", skills.ReferencesDir, name)
		}
	}

	if len(refs) > 0 {
		r.passf(StageReferences, "Found %d reference file(s)", len(refs))
	}
}

func (r *run) checkAssets() {
	assets, err := skills.ListFiles(filepath.Join(r.dir, skills.AssetsDir))
	if err != nil {
		r.warnf(StageAssets, "failed to list %s/: %v", skills.AssetsDir, err)
		return
	}

	placeholders := 0
	for _, asset := range assets {
		if skills.ContainsAny(path.Base(asset), r.h.PlaceholderMarkers) {
			placeholders++
		}
	}

	if placeholders > 0 {
		r.warnf(StageAssets, "%s/ contains %d placeholder(s)", skills.AssetsDir, placeholders)
	}
	if count := len(assets) - placeholders; count > 0 {
		r.passf(StageAssets, "Found %d asset(s)", count)
	}
}

func (r *run) checkFiles() {
	err := filepath.WalkDir(r.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if p == r.dir {
			return nil
		}

		rel, relErr := filepath.Rel(r.dir, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		name := d.Name()
		if r.deny.MatchName(name) {
			if skills.IsDocumentationName(name) {
				r.warnf(StageFiles, "Unnecessary file: %s", rel)
			} else {
				r.warnf(StageFiles, "Unwanted file or directory: %s", rel)
			}
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && r.deny.MatchTemp(name) {
			r.warnf(StageFiles, "Temporary file: %s", rel)
		}
		return nil
	})
	if err != nil {
		r.warnf(StageFiles, "failed to scan bundle: %v", err)
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
