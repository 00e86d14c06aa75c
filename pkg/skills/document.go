package skills

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is a markdown heading found in a descriptor
type Heading struct {
	Level int
	Text  string
}

// CodeBlock is a fenced code block found in a descriptor
type CodeBlock struct {
	Language string // Empty when the fence declares no language
	Lines    int
}

// Document is the markdown structure of a descriptor
type Document struct {
	Meta       map[string]any // Leniently parsed frontmatter, never nil
	MetaErr    error          // Set when the frontmatter YAML was malformed
	Headings   []Heading
	CodeBlocks []CodeBlock
	HasTable   bool
}

// Description returns the frontmatter description when it is a string
func (d *Document) Description() string {
	s, _ := d.Meta["description"].(string)
	return s
}

// Name returns the frontmatter name when it is a string
func (d *Document) Name() string {
	s, _ := d.Meta["name"].(string)
	return s
}

// HeadingsAt returns the text of every heading at the given level
func (d *Document) HeadingsAt(level int) []string {
	var out []string
	for _, h := range d.Headings {
		if h.Level == level {
			out = append(out, h.Text)
		}
	}
	return out
}

// ParseDocument parses a descriptor with goldmark. Frontmatter errors do not
// fail the parse; they are reported on MetaErr with an empty Meta.
func ParseDocument(content []byte) (*Document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta, extension.Table),
	)

	pctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(content), parser.WithContext(pctx))

	doc := &Document{Meta: map[string]any{}}
	metaData, err := meta.TryGet(pctx)
	if err != nil {
		doc.MetaErr = err
	} else if metaData != nil {
		doc.Meta = metaData
	}

	walkErr := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			doc.Headings = append(doc.Headings, Heading{
				Level: node.Level,
				Text:  strings.TrimSpace(nodeText(node, content)),
			})
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			doc.CodeBlocks = append(doc.CodeBlocks, CodeBlock{
				Language: string(node.Language(content)),
				Lines:    node.Lines().Len(),
			})
			return ast.WalkSkipChildren, nil
		case *extast.Table:
			doc.HasTable = true
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if walkErr != nil {
		return nil, errors.Wrap(walkErr, "failed to walk markdown")
	}

	return doc, nil
}

// nodeText concatenates the text segments below n
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
