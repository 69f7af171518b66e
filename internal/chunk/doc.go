// Package chunk extracts named code chunks from literate markdown documents and tangles them
// into a single output by expanding chunk references.
//
// # Document Format
//
// A chunk is defined by a fenced code block whose opening fence carries an optional language
// label and a <<name>> marker followed by an operator:
//
//	```go <<Main Program>>=
//	package main
//
//	<<Imports>>
//	```
//
// The '=' operator defines a chunk and may be used once per name. The '+=' operator appends
// another part to a chunk; used on an unseen name it starts the chunk.
//
// # Tangling
//
//	chunks, err := chunk.Extract(doc)
//	if err != nil {
//	    return err
//	}
//	out, err := chunk.Assemble(chunks, chunk.DefaultRoot)
//
// References are replaced verbatim, so a reference in the middle of a line expands inline.
// Parts of a multi-part chunk are joined with a single newline. Each chunk is expanded at most
// once per assembly.
//
// # Errors
//
// Extraction fails with *RedefinitionError or *UnknownOperatorError. Assembly fails with
// *UndefinedChunkError or *CircularReferenceError. Use errors.Is with the Err* sentinels or
// Kind to classify them.
package chunk
