package skills

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

var (
	// ErrNoFrontmatter is returned when the descriptor does not open with ---
	ErrNoFrontmatter = errors.New(DescriptorFileName + " must begin with YAML frontmatter (---)")
	// ErrUnterminatedFrontmatter is returned when no closing --- line exists
	ErrUnterminatedFrontmatter = errors.New("frontmatter is not closed by a --- line")
	// ErrMalformedYAML is returned when the frontmatter is not valid YAML
	ErrMalformedYAML = errors.New("frontmatter YAML syntax error")
	// ErrFrontmatterNotMapping is returned when the YAML root is not a mapping
	ErrFrontmatterNotMapping = errors.New("frontmatter must be a YAML mapping")
)

// Frontmatter is the strictly parsed frontmatter of a descriptor
type Frontmatter struct {
	Fields map[string]any
	Keys   []string // Keys in document order
	Body   string   // Markdown after the closing delimiter
}

// Has reports whether key is present
func (f *Frontmatter) Has(key string) bool {
	_, ok := f.Fields[key]
	return ok
}

// String returns the value of key when it is a string
func (f *Frontmatter) String(key string) (string, bool) {
	s, ok := f.Fields[key].(string)
	return s, ok
}

// Decode decodes the frontmatter fields into Metadata
func (f *Frontmatter) Decode() (*Metadata, error) {
	raw, err := yaml.Marshal(f.Fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-encode frontmatter")
	}
	var m Metadata
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter")
	}
	return &m, nil
}

// TypeName describes the YAML type of a decoded value for error messages
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64, float64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// SplitFrontmatter separates the YAML block from the markdown body. The
// first line must be exactly --- and the block ends at the next line that is
// exactly ---.
func SplitFrontmatter(content string) (string, string, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if len(lines) == 0 || lines[0] != frontmatterDelimiter {
		return "", content, ErrNoFrontmatter
	}

	for i := 1; i < len(lines); i++ {
		if lines[i] == frontmatterDelimiter {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), nil
		}
	}

	return "", content, ErrUnterminatedFrontmatter
}

// ParseFrontmatter strictly parses the frontmatter of a descriptor
func ParseFrontmatter(content string) (*Frontmatter, error) {
	raw, body, err := SplitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedYAML, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, ErrFrontmatterNotMapping
	}

	root := doc.Content[0]
	fm := &Frontmatter{
		Fields: make(map[string]any, len(root.Content)/2),
		Body:   body,
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		var value any
		if err := root.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedYAML, err)
		}
		if _, seen := fm.Fields[key]; !seen {
			fm.Keys = append(fm.Keys, key)
		}
		fm.Fields[key] = value
	}

	return fm, nil
}

// extractBodyContent removes YAML frontmatter and returns the body
func extractBodyContent(content string) string {
	_, body, err := SplitFrontmatter(content)
	if err != nil {
		return content
	}
	return strings.TrimLeft(body, "\n")
}

// Body returns the descriptor body with leading blank lines removed. When the
// frontmatter cannot be located the whole content is returned.
func Body(content string) string {
	return extractBodyContent(content)
}
