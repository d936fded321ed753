package model

// Path represents a file system path.
type Path string

// SourceUnit is one input file for a run: the original bytes plus the
// compact-JSON AST the compiler produced for exactly those bytes. It is
// created once per file and never mutated; every pipeline stage reads
// it and emits new values.
type SourceUnit struct {
	ID   Path
	Text []byte
	AST  Node
}

// LineCol converts a byte offset into 1-based line and column numbers.
func LineCol(text []byte, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}

	line = 1
	lastNL := -1

	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNL = i
		}
	}

	return line, offset - lastNL
}

// Indent returns the leading whitespace of a line of text.
func Indent(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}

	return line
}
