package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDiagnostics_PreservesDiagnosticText(t *testing.T) {
	block := []byte("Cell.h:12:5: warning: GC-allocated member is not visited\n    GC::Ptr<Object> m_obj;\n")

	out := RenderDiagnostics(block, "dracula")

	assert.NotEmpty(t, out)
	assert.Contains(t, string(out), "GC-allocated member is not visited")
	assert.Contains(t, string(out), "m_obj")
}

func TestRenderDiagnostics_UnknownThemeStillRenders(t *testing.T) {
	block := []byte("warning: something\n")

	out := RenderDiagnostics(block, "no-such-theme")

	assert.Contains(t, string(out), "warning: something")
}
