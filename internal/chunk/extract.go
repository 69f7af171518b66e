package chunk

import "strings"

// Extract scans doc with the fenced scanner and builds its chunk map.
func Extract(doc string) (Map, error) {
	return ExtractWith(NewRegexScanner(), []byte(doc))
}

// ExtractWith scans doc with s and builds its chunk map.
func ExtractWith(s Scanner, doc []byte) (Map, error) {
	blocks, err := s.Scan(doc)
	if err != nil {
		return nil, err
	}
	return Build(blocks)
}

// Build applies operator semantics to blocks in order and returns the resulting map.
//
// The first block for a name must use '='; later blocks must use '+='.
// A '+=' on an unseen name starts the chunk, as if it had been defined.
// Extraction does not look at references, so undefined or circular references are not reported here.
func Build(blocks []Block) (Map, error) {
	chunks := make(Map)

	for _, b := range blocks {
		name := strings.TrimSpace(b.Name)
		body := strings.TrimSpace(b.Body)

		c, ok := chunks[name]
		if !ok {
			c = &Chunk{Name: name, Lang: b.Lang}
		}

		switch b.Operator {
		case OpDefine:
			if len(c.Parts) > 0 {
				return nil, &RedefinitionError{Name: name}
			}
		case OpAppend:
		default:
			return nil, &UnknownOperatorError{Name: name, Operator: b.Operator}
		}

		c.Parts = append(c.Parts, body)
		chunks[name] = c
	}

	return chunks, nil
}
