package chunk

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var (
	// infoHeader matches a fence info string carrying the chunk header, e.g. "go <<Main Program>>=".
	infoHeader = regexp.MustCompile(`^(\w+)?\s*<<(.*?)>>([^\s<>]*?=)\s*$`)
	// lineHeader matches a chunk header on the first body line when the info string holds only a label.
	lineHeader = regexp.MustCompile(`^\s*<<(.*?)>>([^\s<>]*?=)\s*$`)
	// labelOnly matches an info string that is empty or a single language word.
	labelOnly = regexp.MustCompile(`^\w*$`)
)

// MarkdownScanner finds definition blocks by walking the goldmark AST.
// Only real fenced code blocks are considered, so fences quoted inside other blocks are ignored.
type MarkdownScanner struct {
	parser goldmark.Markdown
}

// NewMarkdownScanner creates a new MarkdownScanner.
func NewMarkdownScanner() *MarkdownScanner {
	return &MarkdownScanner{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Scan parses doc as markdown and returns every fenced block that carries a chunk header.
func (s *MarkdownScanner) Scan(doc []byte) ([]Block, error) {
	var blocks []Block
	if len(doc) == 0 {
		return blocks, nil
	}

	reader := text.NewReader(doc)
	root := s.parser.Parser().Parse(reader)
	lines := newLineIndex(doc)

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		if block, ok := blockFromFence(fenced, doc, lines); ok {
			blocks = append(blocks, block)
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

// blockFromFence reads the chunk header and body of a fenced code block.
// It reports false for fenced blocks that do not define a chunk.
func blockFromFence(n *ast.FencedCodeBlock, doc []byte, lines lineIndex) (Block, bool) {
	info := ""
	line := 0
	if n.Info != nil {
		info = strings.TrimSpace(string(n.Info.Segment.Value(doc)))
		line = lines.lineOf(n.Info.Segment.Start)
	}

	body := make([]string, 0, n.Lines().Len())
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		if line == 0 && i == 0 {
			line = lines.lineOf(seg.Start) - 1
		}
		body = append(body, string(seg.Value(doc)))
	}

	if m := infoHeader.FindStringSubmatch(info); m != nil {
		return Block{
			Lang:     m[1],
			Name:     m[2],
			Operator: m[3],
			Body:     strings.Join(body, ""),
			Line:     line,
		}, true
	}

	if !labelOnly.MatchString(info) || len(body) == 0 {
		return Block{}, false
	}

	m := lineHeader.FindStringSubmatch(strings.TrimRight(body[0], "\r\n"))
	if m == nil {
		return Block{}, false
	}

	return Block{
		Lang:     info,
		Name:     m[1],
		Operator: m[2],
		Body:     strings.Join(body[1:], ""),
		Line:     line,
	}, true
}
