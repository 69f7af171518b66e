package chunk

import (
	"regexp"
	"slices"
	"strings"
)

// referencePattern matches an inline <<name>> reference on a single line.
var referencePattern = regexp.MustCompile(`<<(.*?)>>`)

// Observer is notified each time a chunk is actually expanded (cache hits are not reported).
type Observer interface {
	OnExpand(name string)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(name string)

// OnExpand calls f(name).
func (f ObserverFunc) OnExpand(name string) { f(name) }

// Option configures a Resolver.
type Option func(*Resolver)

// WithObserver registers an observer for chunk expansions.
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		r.observer = o
	}
}

// Resolver expands chunk references depth-first and left to right.
// A Resolver carries the resolution cache and active chain of one assembly,
// so it must not be reused across assemblies or shared between goroutines.
type Resolver struct {
	chunks   Map
	resolved map[string]string
	chain    []string
	observer Observer
}

// NewResolver creates a Resolver with an empty cache and chain over chunks.
func NewResolver(chunks Map, opts ...Option) *Resolver {
	r := &Resolver{
		chunks:   chunks,
		resolved: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the fully expanded text of the named chunk.
// Each chunk is expanded at most once; later requests return the cached text.
func (r *Resolver) Resolve(name string) (string, error) {
	if text, ok := r.resolved[name]; ok {
		return text, nil
	}

	if slices.Contains(r.chain, name) {
		chain := append(slices.Clone(r.chain), name)
		return "", &CircularReferenceError{Chain: chain}
	}

	c, ok := r.chunks[name]
	if !ok {
		return "", &UndefinedChunkError{Name: name}
	}

	if r.observer != nil {
		r.observer.OnExpand(name)
	}

	r.chain = append(r.chain, name)
	defer func() { r.chain = r.chain[:len(r.chain)-1] }()

	parts := make([]string, 0, len(c.Parts))
	for _, part := range c.Parts {
		expanded, err := r.expand(part)
		if err != nil {
			return "", err
		}
		parts = append(parts, expanded)
	}

	text := strings.Join(parts, "\n")
	r.resolved[name] = text
	return text, nil
}

// Cached reports whether name has already been expanded by this resolver.
func (r *Resolver) Cached(name string) bool {
	_, ok := r.resolved[name]
	return ok
}

// expand substitutes every reference in part with its resolved text.
func (r *Resolver) expand(part string) (string, error) {
	matches := referencePattern.FindAllStringSubmatchIndex(part, -1)
	if len(matches) == 0 {
		return part, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		ref := strings.TrimSpace(part[m[2]:m[3]])
		text, err := r.Resolve(ref)
		if err != nil {
			return "", err
		}
		b.WriteString(part[last:m[0]])
		b.WriteString(text)
		last = m[1]
	}
	b.WriteString(part[last:])

	return b.String(), nil
}

// Assemble resolves root against chunks with a fresh cache and chain.
// An empty root selects DefaultRoot.
func Assemble(chunks Map, root string, opts ...Option) (string, error) {
	if root == "" {
		root = DefaultRoot
	}
	return NewResolver(chunks, opts...).Resolve(root)
}

// Tangle extracts the chunks of doc and assembles root.
func Tangle(doc, root string) (string, error) {
	chunks, err := Extract(doc)
	if err != nil {
		return "", err
	}
	return Assemble(chunks, root)
}
