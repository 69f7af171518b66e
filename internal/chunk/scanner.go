package chunk

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Scanner names accepted by ScannerByName.
const (
	ScannerFenced   = "fenced"
	ScannerMarkdown = "markdown"
)

const fence = "```"

// blockPattern matches a whole definition block: opening fence with an optional language label,
// the <<name>> marker, the operator, a newline, the body and the closing fence.
// The body is lazy so consecutive blocks never overlap.
// The operator group is wider than '=' and '+=' so malformed operators surface as errors
// instead of silently skipping the block.
var blockPattern = regexp.MustCompile(
	`(?s)` + fence + `(?P<lang>\w+)?\s*<<(?P<name>.*?)>>(?P<operator>[^\s<>]*?=)\n(?P<code>.*?)\n` + fence,
)

// Scanner finds chunk definition blocks in a document, in document order.
type Scanner interface {
	Scan(doc []byte) ([]Block, error)
}

// RegexScanner scans raw text for fenced definition blocks with a single regular expression.
// It does not understand markdown structure, so a fence inside another block is still matched.
type RegexScanner struct{}

// NewRegexScanner creates a new RegexScanner.
func NewRegexScanner() *RegexScanner {
	return &RegexScanner{}
}

// Scan returns every definition block in doc.
func (s *RegexScanner) Scan(doc []byte) ([]Block, error) {
	var (
		lang     = blockPattern.SubexpIndex("lang")
		name     = blockPattern.SubexpIndex("name")
		operator = blockPattern.SubexpIndex("operator")
		code     = blockPattern.SubexpIndex("code")
	)

	matches := blockPattern.FindAllSubmatchIndex(doc, -1)
	blocks := make([]Block, 0, len(matches))
	lines := newLineIndex(doc)

	for _, m := range matches {
		blocks = append(blocks, Block{
			Lang:     group(doc, m, lang),
			Name:     group(doc, m, name),
			Operator: group(doc, m, operator),
			Body:     group(doc, m, code),
			Line:     lines.lineOf(m[0]),
		})
	}

	return blocks, nil
}

// group returns the text of submatch i, or "" when it did not participate.
func group(doc []byte, m []int, i int) string {
	start, end := m[2*i], m[2*i+1]
	if start < 0 {
		return ""
	}
	return string(doc[start:end])
}

// ScannerByName returns the scanner registered under name.
// An empty name selects the fenced scanner.
func ScannerByName(name string) (Scanner, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ScannerFenced:
		return NewRegexScanner(), nil
	case ScannerMarkdown:
		return NewMarkdownScanner(), nil
	default:
		return nil, fmt.Errorf("unknown scanner %q (want %q or %q)", name, ScannerFenced, ScannerMarkdown)
	}
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(doc []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range doc {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (li lineIndex) lineOf(offset int) int {
	return sort.Search(len(li), func(i int) bool { return li[i] > offset })
}
