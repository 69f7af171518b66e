package chunk

import (
	"slices"
	"sort"
	"strings"
)

// Names returns the chunk names in lexical order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// References returns the trimmed names referenced by a chunk, in order of first appearance.
// It returns nil for an unknown chunk.
func (m Map) References(name string) []string {
	c, ok := m[name]
	if !ok {
		return nil
	}

	var refs []string
	for _, part := range c.Parts {
		for _, match := range referencePattern.FindAllStringSubmatch(part, -1) {
			ref := strings.TrimSpace(match[1])
			if !slices.Contains(refs, ref) {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// Roots returns the chunks that no other chunk references, in lexical order.
// These are the candidate entry points of a document.
func (m Map) Roots() []string {
	referenced := make(map[string]bool)
	for name := range m {
		for _, ref := range m.References(name) {
			if ref != name {
				referenced[ref] = true
			}
		}
	}

	var roots []string
	for _, name := range m.Names() {
		if !referenced[name] {
			roots = append(roots, name)
		}
	}
	return roots
}
