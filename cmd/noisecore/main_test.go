package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoProgramSpecKnownNames(t *testing.T) {
	for _, name := range []string{"silence", "noise"} {
		spec, err := demoProgramSpec(name)
		require.NoError(t, err)
		assert.NotEmpty(t, spec.Instructions)
	}
}

func TestDemoProgramSpecUnknownName(t *testing.T) {
	_, err := demoProgramSpec("vocoder")
	assert.Error(t, err)
}

func TestRunCommandRegistersFlags(t *testing.T) {
	cmd := newRunCommand()
	for _, name := range []string{"backend", "program", "blocks", "block-size", "out", "datastream-address"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %q", name)
	}
}

func TestListCommandRuns(t *testing.T) {
	cmd := newListCommand()
	require.NoError(t, cmd.RunE(cmd, nil))
}
