package validator

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Severity classifies a finding
type Severity string

const (
	// SeverityError blocks packaging
	SeverityError Severity = "error"
	// SeverityWarning is advisory
	SeverityWarning Severity = "warning"
	// SeverityPass records a check that succeeded
	SeverityPass Severity = "pass"
)

// Stage names the group of checks a finding belongs to
type Stage string

// Stages in run order
const (
	StageStructure   Stage = "structure"
	StageFrontmatter Stage = "frontmatter"
	StageDescription Stage = "description"
	StageBody        Stage = "body"
	StageScripts     Stage = "scripts"
	StageReferences  Stage = "references"
	StageAssets      Stage = "assets"
	StageFiles       Stage = "files"
)

// Stages lists every stage in the order the checks run
var Stages = []Stage{
	StageStructure,
	StageFrontmatter,
	StageDescription,
	StageBody,
	StageScripts,
	StageReferences,
	StageAssets,
	StageFiles,
}

// Finding is a single outcome of a check
type Finding struct {
	Severity Severity `json:"severity"`
	Stage    Stage    `json:"stage"`
	Message  string   `json:"message"`
}

// Result is the outcome of validating a bundle
type Result struct {
	Path     string    `json:"path"`
	Valid    bool      `json:"valid"`
	Summary  string    `json:"summary"`
	Findings []Finding `json:"findings"`
}

func (r *Result) add(severity Severity, stage Stage, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Severity: severity,
		Stage:    stage,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *Result) filter(severity Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

// Errors returns the findings that make the bundle invalid
func (r *Result) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the advisory findings
func (r *Result) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

// StageFindings returns the findings of one stage, in order
func (r *Result) StageFindings(stage Stage) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Stage == stage {
			out = append(out, f)
		}
	}
	return out
}

// Err aggregates the error findings. It returns nil for a valid bundle.
func (r *Result) Err() error {
	var result *multierror.Error
	for _, f := range r.Errors() {
		result = multierror.Append(result, errors.New(f.Message))
	}
	return result.ErrorOrNil()
}

func (r *Result) finish() {
	errs, warnings := len(r.Errors()), len(r.Warnings())
	r.Valid = errs == 0

	switch {
	case errs > 0:
		r.Summary = fmt.Sprintf("%d error(s) found", errs)
		if warnings > 0 {
			r.Summary += fmt.Sprintf(", %d warning(s)", warnings)
		}
	case warnings > 0:
		r.Summary = fmt.Sprintf("Valid with %d warning(s)", warnings)
	default:
		r.Summary = "Skill is valid"
	}
}
