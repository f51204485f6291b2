package utils

import (
	"bytes"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderDiagnostics highlights a captured diagnostics block for terminal
// display. Verifier output is clang-style diagnostics quoting C++ source,
// so the C++ lexer reads well enough for the whole block. On any failure
// the block is returned untouched; display must never lose diagnostics.
func RenderDiagnostics(block []byte, theme string) []byte {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, string(block), "c++", "terminal256", theme); err != nil {
		return block
	}
	return buf.Bytes()
}
