package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Report is the outcome of an analysis
type Report struct {
	Path        string   `json:"path"`
	Name        string   `json:"name"`
	Metrics     Metrics  `json:"metrics"`
	Suggestions []string `json:"suggestions"`
}

// Metrics are the measurements collected by the checks
type Metrics struct {
	Descriptor      DescriptorMetrics   `json:"descriptor"`
	ReferencesBytes int64               `json:"references_bytes"`
	Description     *DescriptionMetrics `json:"description,omitempty"`
	Structure       StructureMetrics    `json:"structure"`
	Code            CodeMetrics         `json:"code"`
	Scripts         []string            `json:"scripts"`
	References      []string            `json:"references"`
	Assets          []string            `json:"assets"`
	AssetCount      int                 `json:"asset_count"`
}

// DescriptorMetrics measure the size of SKILL.md
type DescriptorMetrics struct {
	Lines int `json:"lines"`
	Words int `json:"words"`
	Chars int `json:"chars"`
}

// DescriptionMetrics describe the frontmatter description. Nil when the
// description is empty.
type DescriptionMetrics struct {
	Chars         int  `json:"chars"`
	HasActivation bool `json:"has_activation"`
	HasExamples   bool `json:"has_examples"`
	HasFormats    bool `json:"has_formats"`
}

// StructureMetrics describe the heading layout
type StructureMetrics struct {
	Sections      int      `json:"sections"`
	Subsections   int      `json:"subsections"`
	SectionTitles []string `json:"section_titles"`
	HasTable      bool     `json:"has_table"`
}

// CodeMetrics describe the fenced code blocks
type CodeMetrics struct {
	Blocks          int            `json:"blocks"`
	TotalLines      int            `json:"total_lines"`
	Languages       map[string]int `json:"languages"`
	CriticalMarkers int            `json:"critical_markers"`
}

// LanguageNames returns the tallied languages in sorted order
func (c CodeMetrics) LanguageNames() []string {
	names := make([]string, 0, len(c.Languages))
	for lang := range c.Languages {
		names = append(names, lang)
	}
	sort.Strings(names)
	return names
}

// JSON returns the indented JSON form of the report
func (r *Report) JSON() (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Markdown renders the report as a markdown document
func (r *Report) Markdown() string {
	var b strings.Builder
	m := r.Metrics

	fmt.Fprintf(&b, "# Analysis: %s\n\n", r.Name)
	fmt.Fprintf(&b, "`%s`\n\n", r.Path)

	b.WriteString("## SKILL.md\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Lines | %d |\n", m.Descriptor.Lines)
	fmt.Fprintf(&b, "| Words | %d |\n", m.Descriptor.Words)
	fmt.Fprintf(&b, "| Characters | %d |\n", m.Descriptor.Chars)
	fmt.Fprintf(&b, "| Sections | %d |\n", m.Structure.Sections)
	fmt.Fprintf(&b, "| Subsections | %d |\n", m.Structure.Subsections)
	fmt.Fprintf(&b, "| Code blocks | %d (%d lines) |\n", m.Code.Blocks, m.Code.TotalLines)
	fmt.Fprintf(&b, "| References size | %d bytes |\n\n", m.ReferencesBytes)

	if d := m.Description; d != nil {
		fmt.Fprintf(&b, "## Description (%d characters)\n\n", d.Chars)
		fmt.Fprintf(&b, "- [%s] Activation scenarios\n", mark(d.HasActivation))
		fmt.Fprintf(&b, "- [%s] Examples\n", mark(d.HasExamples))
		fmt.Fprintf(&b, "- [%s] File formats\n\n", mark(d.HasFormats))
	}

	if len(m.Scripts)+len(m.References)+m.AssetCount > 0 {
		b.WriteString("## Resources\n\n")
		if len(m.Scripts) > 0 {
			fmt.Fprintf(&b, "- Scripts: %s\n", codeList(m.Scripts))
		}
		if len(m.References) > 0 {
			fmt.Fprintf(&b, "- References: %s\n", codeList(m.References))
		}
		if m.AssetCount > 0 {
			fmt.Fprintf(&b, "- Assets: %d file(s)\n", m.AssetCount)
		}
		b.WriteString("\n")
	}

	if len(r.Suggestions) == 0 {
		b.WriteString("## Suggestions\n\nNo improvements identified.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "## Suggestions (%d)\n\n", len(r.Suggestions))
	for i, s := range r.Suggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}

func mark(ok bool) string {
	if ok {
		return "x"
	}
	return " "
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "`" + item + "`"
	}
	return strings.Join(quoted, ", ")
}
