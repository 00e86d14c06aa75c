package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	presenter := New()
	assert.NotNil(t, presenter)
	assert.Equal(t, os.Stdout, presenter.output)
	assert.Equal(t, os.Stderr, presenter.errorOutput)
	assert.False(t, presenter.quiet)
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name      string
		noColor   string
		forgeMode string
		expected  ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"SKILLFORGE_COLOR always", "", "always", ColorAlways},
		{"SKILLFORGE_COLOR force", "", "force", ColorAlways},
		{"SKILLFORGE_COLOR never", "", "never", ColorNever},
		{"SKILLFORGE_COLOR off", "", "off", ColorNever},
		{"SKILLFORGE_COLOR auto", "", "auto", ColorAuto},
		{"default", "", "", ColorAuto},
		{"invalid value", "", "sometimes", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("SKILLFORGE_COLOR", tt.forgeMode)

			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestError(t *testing.T) {
	var errorOutput bytes.Buffer
	presenter := NewWithOptions(nil, &errorOutput, ColorNever)

	presenter.Error(errors.New("SKILL.md not found"), "Validation failed")
	output := errorOutput.String()
	assert.Contains(t, output, "✗")
	assert.Contains(t, output, "Validation failed")
	assert.Contains(t, output, "SKILL.md not found")

	errorOutput.Reset()
	presenter.Error(errors.New("boom"), "")
	assert.Equal(t, "✗ boom\n", errorOutput.String())

	errorOutput.Reset()
	presenter.Error(nil, "context")
	assert.Empty(t, errorOutput.String())
}

func TestErrorShownInQuietMode(t *testing.T) {
	var errorOutput bytes.Buffer
	presenter := NewWithOptions(nil, &errorOutput, ColorNever)
	presenter.SetQuiet(true)

	presenter.Error(errors.New("boom"), "")
	assert.Contains(t, errorOutput.String(), "boom")
}

func TestMessages(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Success("Packaged my-skill")
	presenter.Warning("README.md should not ship")
	presenter.Info("plain line")
	presenter.Bullet("12 lines")
	presenter.Check(true, "Activation cues")
	presenter.Check(false, "Examples")
	presenter.Numbered(2, "Add a table")

	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "✓ Packaged my-skill", lines[0])
	assert.Equal(t, "⚠ README.md should not ship", lines[1])
	assert.Equal(t, "plain line", lines[2])
	assert.Equal(t, "  • 12 lines", lines[3])
	assert.Equal(t, "  ✓ Activation cues", lines[4])
	assert.Equal(t, "  ✗ Examples", lines[5])
	assert.Equal(t, "  2. Add a table", lines[6])
}

func TestQuietModeSilencesEverything(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)
	presenter.SetQuiet(true)

	presenter.Success("x")
	presenter.Warning("x")
	presenter.Info("x")
	presenter.Section("x")
	presenter.Bullet("x")
	presenter.Check(true, "x")
	presenter.Numbered(1, "x")
	presenter.Separator()

	assert.Empty(t, output.String())
}

func TestSection(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Section("Descrição")

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Descrição", lines[0])
	assert.Equal(t, strings.Repeat("-", 9), lines[1])
}

func TestSeparator(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Separator()

	assert.Contains(t, output.String(), strings.Repeat("-", 60))
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 bytes", HumanSize(512))
	assert.Equal(t, "1.5 KB", HumanSize(1536))
	assert.Equal(t, "2.0 MB", HumanSize(2*1024*1024))
}

func TestSetDefault(t *testing.T) {
	var output bytes.Buffer
	prev := SetDefault(NewWithOptions(&output, &output, ColorNever))
	t.Cleanup(func() { SetDefault(prev) })

	Success("done")
	Info("info")

	assert.Contains(t, output.String(), "✓ done")
	assert.Contains(t, output.String(), "info")
}
