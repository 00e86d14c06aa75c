// Package packager builds distributable .skill archives from validated
// bundles.
package packager

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/logger"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/skills"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/validator"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrValidationFailed is matched by the error returned when the bundle does
// not pass validation
var ErrValidationFailed = errors.New("validation failed")

// ValidationError carries the validator result that blocked packaging
type ValidationError struct {
	Result *validator.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed, e.Result.Summary)
}

// Is makes errors.Is(err, ErrValidationFailed) hold
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// excludedNames never ship, on top of the deny-list
var excludedNames = map[string]bool{
	".gitignore": true,
	".env":       true,
}

// excludedExtensions are compiled or cached artifacts
var excludedExtensions = map[string]bool{
	".pyc": true,
	".pyo": true,
}

// Result describes a written archive
type Result struct {
	ArchivePath string
	Files       int
	Entries     []string
	Size        int64
	Validation  *validator.Result
}

// Option configures a Packager
type Option func(*Packager)

// WithOutputDir sets the directory the archive is written to. It is created
// when missing. The default is the working directory.
func WithOutputDir(dir string) Option {
	return func(p *Packager) {
		p.outputDir = dir
	}
}

// WithValidatorOptions configures the validation run that gates packaging
func WithValidatorOptions(opts ...validator.Option) Option {
	return func(p *Packager) {
		p.validatorOpts = append(p.validatorOpts, opts...)
	}
}

// WithDenylist replaces the deny-list used for exclusion and validation
func WithDenylist(d *skills.Denylist) Option {
	return func(p *Packager) {
		p.denylist = d
		p.validatorOpts = append(p.validatorOpts, validator.WithDenylist(d))
	}
}

// Packager writes bundles into archives
type Packager struct {
	outputDir     string
	denylist      *skills.Denylist
	validatorOpts []validator.Option
}

// New creates a Packager
func New(opts ...Option) *Packager {
	p := &Packager{denylist: skills.DefaultDenylist()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Package is a shortcut for New(opts...).Package(ctx, bundlePath)
func Package(ctx context.Context, bundlePath string, opts ...Option) (*Result, error) {
	return New(opts...).Package(ctx, bundlePath)
}

// Package validates the bundle at bundlePath and writes it to
// <output>/<bundle-name>.skill. Nothing is written when validation reports
// errors.
func (p *Packager) Package(ctx context.Context, bundlePath string) (*Result, error) {
	bundle, err := skills.OpenBundle(bundlePath)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithBundle(ctx, bundle.Path)

	validation := validator.Validate(ctx, bundle.Path, p.validatorOpts...)
	if !validation.Valid {
		return nil, &ValidationError{Result: validation}
	}

	outputDir := p.outputDir
	if outputDir == "" {
		if outputDir, err = os.Getwd(); err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}
	}
	if outputDir, err = filepath.Abs(outputDir); err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", p.outputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", outputDir)
	}

	archivePath := filepath.Join(outputDir, bundle.Name()+skills.ArchiveExtension)
	files, err := p.collect(bundle.Path, archivePath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ArchivePath: archivePath,
		Files:       len(files),
		Validation:  validation,
	}
	for _, rel := range files {
		result.Entries = append(result.Entries, EntryName(bundle.Name(), rel))
	}

	if result.Size, err = p.write(ctx, bundle, files, archivePath); err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("archive", archivePath).
		WithField("files", result.Files).
		Debug("bundle packaged")
	return result, nil
}

// EntryName returns the archive entry for a file relative to the bundle
func EntryName(bundleName, rel string) string {
	return bundleName + "/" + filepath.ToSlash(rel)
}

// collect returns the sorted relative paths of the files to archive
func (p *Packager) collect(root, archivePath string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", path)
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %s", path)
		}

		if p.excluded(rel, d) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() || path == archivePath {
			return nil
		}

		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// excluded reports whether a bundle-relative entry is left out of archives
func (p *Packager) excluded(rel string, d fs.DirEntry) bool {
	name := d.Name()
	if p.denylist.MatchName(name) || excludedNames[name] {
		return true
	}
	if strings.HasPrefix(name, ".") && strings.Contains(filepath.ToSlash(rel), "/") {
		return true
	}
	if d.IsDir() {
		return false
	}
	return excludedExtensions[filepath.Ext(name)] || p.denylist.MatchTemp(name)
}

// write streams the files into a uniquely named partial file next to
// archivePath and renames it into place. The partial file is removed on
// failure.
func (p *Packager) write(ctx context.Context, bundle *skills.Bundle, files []string, archivePath string) (size int64, err error) {
	partial := filepath.Join(filepath.Dir(archivePath),
		fmt.Sprintf(".%s.%s.partial", filepath.Base(archivePath), uuid.NewString()))

	out, err := os.OpenFile(partial, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create %s", partial)
	}
	defer func() {
		if err != nil {
			out.Close()
			if rmErr := os.Remove(partial); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.G(ctx).WithError(rmErr).Warn("failed to remove partial archive")
			}
		}
	}()

	zw := zip.NewWriter(out)
	for _, rel := range files {
		if err = addFile(zw, bundle.Path, bundle.Name(), rel); err != nil {
			return 0, err
		}
		logger.G(ctx).WithField("file", rel).Debug("added to archive")
	}
	if err = zw.Close(); err != nil {
		return 0, errors.Wrap(err, "failed to finalize archive")
	}
	if err = out.Close(); err != nil {
		return 0, errors.Wrap(err, "failed to close archive")
	}

	if err = os.Rename(partial, archivePath); err != nil {
		return 0, errors.Wrapf(err, "failed to move archive to %s", archivePath)
	}

	info, statErr := os.Stat(archivePath)
	if statErr != nil {
		return 0, errors.Wrapf(statErr, "failed to stat %s", archivePath)
	}
	return info.Size(), nil
}

func addFile(zw *zip.Writer, root, bundleName, rel string) error {
	path := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", rel)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrapf(err, "failed to build header for %s", rel)
	}
	header.Name = EntryName(bundleName, rel)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return errors.Wrapf(err, "failed to add %s", rel)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", rel)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return errors.Wrapf(err, "failed to compress %s", rel)
	}
	return nil
}
