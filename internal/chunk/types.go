package chunk

// DefaultRoot is the entry chunk used when no root name is given.
const DefaultRoot = "Main Program"

const (
	// OpDefine starts a chunk. It may only be used once per name.
	OpDefine = "="
	// OpAppend adds another part to a chunk.
	OpAppend = "+="
)

// Block is one raw chunk definition block found by a Scanner, before operator semantics are applied.
type Block struct {
	Lang     string // Language label from the opening fence, may be empty
	Name     string // Chunk name as written between << and >> (untrimmed)
	Operator string // Operator token following the name
	Body     string // Block body between header and closing fence (untrimmed)
	Line     int    // 1-based line of the opening fence
}

// Chunk is a named fragment of text, possibly defined across several blocks.
type Chunk struct {
	Name  string   // Trimmed chunk name (exact-match lookup key)
	Lang  string   // Language label of the first defining block (informational)
	Parts []string // Trimmed block bodies in source order
}

// Map maps chunk names to their definitions.
// It is built once per document and must not be modified during resolution.
type Map map[string]*Chunk
