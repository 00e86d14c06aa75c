// Package analyzer inspects a skill bundle and suggests improvements. Every
// check is a best-effort textual heuristic: checks are independent, never
// short-circuit each other, and only ever add suggestions.
package analyzer

import (
	"context"
	"fmt"
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
)

// untaggedLanguage is the tally key for fences without a language
const untaggedLanguage = "unspecified"

// Analyzer runs the heuristic checks against a bundle
type Analyzer struct {
	heuristics skills.Heuristics
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithHeuristics replaces the default phrase sets and thresholds
func WithHeuristics(h skills.Heuristics) Option {
	return func(a *Analyzer) {
		a.heuristics = h
	}
}

// New creates an Analyzer
func New(opts ...Option) *Analyzer {
	a := &Analyzer{heuristics: skills.DefaultHeuristics()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze is a shortcut for New(opts...).Analyze(ctx, bundlePath)
func Analyze(ctx context.Context, bundlePath string, opts ...Option) (*Report, error) {
	return New(opts...).Analyze(ctx, bundlePath)
}

// run carries the state of a single analysis
type run struct {
	h       skills.Heuristics
	bundle  *skills.Bundle
	doc     *skills.Document
	report  *Report
	scripts []string
	refs    []string
}

// Analyze produces a report for the bundle at bundlePath. It fails only when
// the directory or its descriptor is missing.
func (a *Analyzer) Analyze(ctx context.Context, bundlePath string) (*Report, error) {
	bundle, err := skills.OpenBundle(bundlePath)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithBundle(ctx, bundle.Path)

	doc, err := skills.ParseDocument([]byte(bundle.Descriptor))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse descriptor")
	}
	// Strict yaml.v3 values take precedence over goldmark-meta's.
	if fm, err := skills.ParseFrontmatter(bundle.Descriptor); err == nil {
		doc.Meta = fm.Fields
		doc.MetaErr = nil
	} else if doc.MetaErr != nil {
		logger.G(ctx).WithError(doc.MetaErr).Debug("frontmatter is not valid YAML, analyzing without it")
	}

	name := doc.Name()
	if name == "" {
		name = "unknown"
	}

	r := &run{
		h:      a.heuristics,
		bundle: bundle,
		doc:    doc,
		report: &Report{Path: bundle.Path, Name: name},
	}

	checks := []struct {
		name string
		fn   func() error
	}{
		{"size", r.checkSize},
		{"description", r.checkDescription},
		{"structure", r.checkStructure},
		{"resources", r.checkResources},
		{"code", r.checkCode},
		{"duplication", r.checkDuplication},
	}
	for _, c := range checks {
		before := len(r.report.Suggestions)
		if err := c.fn(); err != nil {
			return nil, errors.Wrapf(err, "%s check failed", c.name)
		}
		logger.G(ctx).WithField("check", c.name).
			WithField("suggestions", len(r.report.Suggestions)-before).
			Debug("check complete")
	}

	return r.report, nil
}

func (r *run) suggest(format string, args ...any) {
	r.report.Suggestions = append(r.report.Suggestions, fmt.Sprintf(format, args...))
}

func (r *run) checkSize() error {
	content := r.bundle.Descriptor
	m := &r.report.Metrics

	m.Descriptor = DescriptorMetrics{
		Lines: len(strings.Split(content, "\n")),
		Words: len(strings.Fields(content)),
		Chars: utf8.RuneCountInString(content),
	}

	if m.Descriptor.Lines > r.h.MaxDescriptorLines {
		r.suggest("%s has %d lines. Consider moving details to %s/ to reduce context usage.",
			skills.DescriptorFileName, m.Descriptor.Lines, skills.ReferencesDir)
	}
	if m.Descriptor.Words > r.h.MaxDescriptorWords {
		r.suggest("%s has %d words. Concise skills are more efficient; check that every piece of information is essential.",
			skills.DescriptorFileName, m.Descriptor.Words)
	}

	refsDir := r.bundle.Dir(skills.ReferencesDir)
	all, err := skills.ListFiles(refsDir)
	if err != nil {
		return err
	}
	m.ReferencesBytes = skills.TotalSize(refsDir, all)
	if m.ReferencesBytes > r.h.MaxReferencesBytes {
		r.suggest("%s/ holds %dKB. For large files, add grep patterns to %s so they can be searched efficiently.",
			skills.ReferencesDir, m.ReferencesBytes/1024, skills.DescriptorFileName)
	}

	return nil
}

func (r *run) checkDescription() error {
	description := strings.TrimSpace(r.doc.Description())
	if description == "" {
		r.suggest("Description is empty. Add a detailed description with activation scenarios.")
		return nil
	}

	quality := &DescriptionMetrics{
		Chars:         utf8.RuneCountInString(description),
		HasActivation: skills.ContainsAny(description, r.h.ActivationPhrases),
		HasExamples:   skills.ContainsAny(description, r.h.ExamplePhrases),
		HasFormats:    skills.ContainsAny(description, r.h.FormatPhrases),
	}
	r.report.Metrics.Description = quality

	if !quality.HasActivation {
		r.suggest("Description has no clear activation scenarios. Add \"Use when...\" followed by specific scenarios.")
	}
	if !quality.HasExamples {
		r.suggest("Description could list numbered or parenthesized examples to make clear when the skill applies.")
	}
	if !quality.HasFormats {
		r.suggest("Description mentions no file formats. Name the formats the skill handles (e.g. .pdf, .docx, .json) to sharpen activation.")
	}
	if quality.Chars < r.h.MinDescriptionChars {
		r.suggest("Description is short (%d characters). Effective descriptions usually have 100-500 characters with detailed activation scenarios.",
			quality.Chars)
	}

	return nil
}

func (r *run) checkStructure() error {
	sections := r.doc.HeadingsAt(2)
	subsections := r.doc.HeadingsAt(3)

	titles := sections
	if len(titles) > r.h.MaxListedSectionTitles {
		titles = titles[:r.h.MaxListedSectionTitles]
	}
	r.report.Metrics.Structure = StructureMetrics{
		Sections:      len(sections),
		Subsections:   len(subsections),
		SectionTitles: titles,
		HasTable:      r.doc.HasTable,
	}

	if len(sections) < r.h.MinSections {
		r.suggest("%s has few sections. Organize it into clear sections such as Overview, Quick Reference and task-specific sections.",
			skills.DescriptorFileName)
	}
	if len(sections) > r.h.MaxSections {
		r.suggest("%s has %d sections. Too many sections hurt navigation; consolidate them or move some to %s/.",
			skills.DescriptorFileName, len(sections), skills.ReferencesDir)
	}
	if !r.doc.HasTable && len(sections) > r.h.TableSectionThreshold {
		r.suggest("Consider adding a Quick Reference table near the top to help navigate the many sections.")
	}

	for _, heading := range r.doc.Headings {
		if skills.ContainsAny(heading.Text, r.h.WhenToUsePhrases) {
			r.suggest("Section %q found in the body. Activation guidance belongs in the frontmatter description.",
				heading.Text)
			break
		}
	}

	return nil
}

func (r *run) checkResources() error {
	var err error
	m := &r.report.Metrics

	if r.scripts, err = skills.ListFiles(r.bundle.Dir(skills.ScriptsDir)); err != nil {
		return err
	}
	if r.refs, err = skills.ListFiles(r.bundle.Dir(skills.ReferencesDir)); err != nil {
		return err
	}
	assets, err := skills.ListFiles(r.bundle.Dir(skills.AssetsDir))
	if err != nil {
		return err
	}

	m.Scripts = nonNil(r.scripts)
	m.References = nonNil(r.refs)
	m.Assets = nonNil(assets)
	if len(m.Assets) > r.h.MaxListedAssets {
		m.Assets = m.Assets[:r.h.MaxListedAssets]
	}
	m.AssetCount = len(assets)

	for _, script := range r.scripts {
		name := path.Base(script)
		if !strings.Contains(r.bundle.Descriptor, name) {
			r.suggest("Script %q is not referenced in %s. Document its usage or remove it if it is not needed.",
				name, skills.DescriptorFileName)
		}
	}
	for _, ref := range r.refs {
		name := path.Base(ref)
		if !strings.Contains(r.bundle.Descriptor, name) {
			r.suggest("Reference %q is not mentioned in %s. Say when this file should be consulted.",
				name, skills.DescriptorFileName)
		}
	}

	return nil
}

func (r *run) checkCode() error {
	languages := make(map[string]int)
	totalLines := 0
	for _, block := range r.doc.CodeBlocks {
		lang := block.Language
		if lang == "" {
			lang = untaggedLanguage
		}
		languages[lang]++
		totalLines += block.Lines
	}

	critical := countCaseInsensitive(r.bundle.Descriptor, r.h.CriticalMarker)
	r.report.Metrics.Code = CodeMetrics{
		Blocks:          len(r.doc.CodeBlocks),
		TotalLines:      totalLines,
		Languages:       languages,
		CriticalMarkers: critical,
	}

	if untagged := languages[untaggedLanguage]; untagged > r.h.MaxUntaggedCodeBlocks {
		r.suggest("%d code blocks declare no language. Specify one (python, javascript, bash, ...) for syntax highlighting.",
			untagged)
	}
	if critical == 0 && totalLines > r.h.CriticalCodeLines {
		r.suggest("No %s warning found. If there are common pitfalls, mark them clearly to prevent mistakes.",
			r.h.CriticalMarker+"**")
	}

	return nil
}

func (r *run) checkDuplication() error {
	if len(r.refs) == 0 {
		return nil
	}

	fingerprints := Fingerprints(r.bundle.Descriptor, r.h.FingerprintWords)
	if len(fingerprints) == 0 {
		return nil
	}

	refsDir := r.bundle.Dir(skills.ReferencesDir)
	for _, ref := range r.refs {
		content, err := os.ReadFile(filepath.Join(refsDir, filepath.FromSlash(ref)))
		if err != nil {
			return errors.Wrapf(err, "failed to read %s/%s", skills.ReferencesDir, ref)
		}

		hits := 0
		text := string(content)
		for _, fp := range fingerprints {
			if strings.Contains(text, fp) {
				hits++
			}
		}

		if hits > r.h.MaxDuplicateHits {
			r.suggest("Possible duplication between %s and %s: %d similar passages found. Keep each piece of information in one place.",
				skills.DescriptorFileName, path.Base(ref), hits)
		}
	}

	return nil
}

// Fingerprints returns the distinct first-n-word prefixes of every line that
// has more than n words, sorted
func Fingerprints(content string, n int) []string {
	set := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		words := strings.Fields(line)
		if len(words) > n {
			set[strings.Join(words[:n], " ")] = true
		}
	}

	out := make([]string, 0, len(set))
	for fp := range set {
		out = append(out, fp)
	}
	sort.Strings(out)
	return out
}

func countCaseInsensitive(content, marker string) int {
	if marker == "" {
		return 0
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(marker))
	return len(re.FindAllStringIndex(content, -1))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
