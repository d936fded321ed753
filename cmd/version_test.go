package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "mutsol version")
	assert.Contains(t, output, "go version")
}

func TestVersionCmd_DefaultVersionIsDev(t *testing.T) {
	// Test binaries carry no release stamp, so the fallback chain
	// starts from the dev marker.
	assert.Equal(t, "dev", version)
}
