// Package scaffold creates new skill bundles from embedded templates.
package scaffold

import (
	"bytes"
	"context"
	"embed"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/logger"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/skills"
	"github.com/pkg/errors"
)

// Template files
//
//go:embed templates/*
var TemplateFS embed.FS

const (
	// ExampleScript is the name of the generated example script
	ExampleScript = "exemplo.py"
	// ExampleReference is the name of the generated example reference
	ExampleReference = "exemplo.md"
	// PlaceholderAsset is the name of the generated asset placeholder
	PlaceholderAsset = "PLACEHOLDER.md"
)

// ErrAlreadyExists is returned when the target bundle directory exists
var ErrAlreadyExists = errors.New("directory already exists")

// Artifact is a file materialized in a new bundle
type Artifact struct {
	Path     string // Slash-separated path relative to the bundle
	Template string
	Mode     os.FileMode
}

// Artifacts lists what Create writes, in creation order
var Artifacts = []Artifact{
	{Path: skills.DescriptorFileName, Template: "templates/SKILL.md.tmpl", Mode: 0o644},
	{Path: skills.ScriptsDir + "/" + ExampleScript, Template: "templates/exemplo.py.tmpl", Mode: 0o755},
	{Path: skills.ReferencesDir + "/" + ExampleReference, Template: "templates/exemplo.md.tmpl", Mode: 0o644},
	{Path: skills.AssetsDir + "/" + PlaceholderAsset, Template: "templates/PLACEHOLDER.md.tmpl", Mode: 0o644},
}

// TemplateData holds the values substituted into the templates
type TemplateData struct {
	Name          string
	Title         string
	ScriptName    string
	ReferenceName string
}

// writeFile is swapped in tests to simulate I/O failures
var writeFile = os.WriteFile

// Create validates name and materializes a new bundle under destDir/name.
// destDir is created when missing. It returns the absolute bundle path. If
// writing any artifact fails the new bundle directory is removed.
func Create(ctx context.Context, name, destDir string) (string, error) {
	if err := skills.ValidateName(name); err != nil {
		return "", errors.Wrap(err, "invalid skill name")
	}

	base, err := filepath.Abs(destDir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", destDir)
	}
	target := filepath.Join(base, name)
	ctx = logger.WithBundle(ctx, target)

	if _, err := os.Lstat(target); err == nil {
		return "", errors.Wrap(ErrAlreadyExists, target)
	} else if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "failed to stat %s", target)
	}

	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", base)
	}
	if err := os.Mkdir(target, 0o755); err != nil {
		if os.IsExist(err) {
			return "", errors.Wrap(ErrAlreadyExists, target)
		}
		return "", errors.Wrapf(err, "failed to create %s", target)
	}
	logger.G(ctx).Debug("created bundle directory")

	data := TemplateData{
		Name:          name,
		Title:         skills.TitleFromName(name),
		ScriptName:    ExampleScript,
		ReferenceName: ExampleReference,
	}
	for _, artifact := range Artifacts {
		if err := materialize(target, artifact, data); err != nil {
			if rmErr := os.RemoveAll(target); rmErr != nil {
				logger.G(ctx).WithError(rmErr).Warn("failed to remove partially created bundle")
			}
			return "", err
		}
		logger.G(ctx).WithField("file", artifact.Path).Debug("created file")
	}

	return target, nil
}

func materialize(target string, artifact Artifact, data TemplateData) error {
	content, err := Render(artifact.Template, data)
	if err != nil {
		return err
	}

	dest := filepath.Join(target, filepath.FromSlash(artifact.Path))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(dest))
	}
	if err := writeFile(dest, []byte(content), artifact.Mode); err != nil {
		return errors.Wrapf(err, "failed to write %s", artifact.Path)
	}
	if err := os.Chmod(dest, artifact.Mode); err != nil {
		return errors.Wrapf(err, "failed to set permissions on %s", artifact.Path)
	}
	return nil
}

// Render executes one of the embedded templates
func Render(name string, data TemplateData) (string, error) {
	tmplContent, err := TemplateFS.ReadFile(name)
	if err != nil {
		return "", errors.Wrap(err, "failed to read template file")
	}

	tmpl, err := template.New(filepath.Base(name)).Parse(string(tmplContent))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "failed to execute template")
	}

	return buf.String(), nil
}
