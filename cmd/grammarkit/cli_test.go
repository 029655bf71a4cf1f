package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIParsesDigitsFixtureWithLL1(t *testing.T) {
	var output bytes.Buffer
	err := Run(Config{
		Args:   []string{"grammarkit", "--mode=ll1", "--lexer=advanced", "digits"},
		Output: &output,
	})
	require.NoError(t, err)
	assert.Contains(t, output.String(), "number")
}

func TestCLIParsesContextReducibilityFixtureWithShiftReduce(t *testing.T) {
	var output bytes.Buffer
	err := Run(Config{
		Args:   []string{"grammarkit", "--mode=sr", "--lexer=legacy", "context-reducibility"},
		Output: &output,
	})
	require.NoError(t, err)
	assert.Contains(t, output.String(), "block")
}

func TestCLIParsesWithHandleDuplicatesAtRuntime(t *testing.T) {
	var output bytes.Buffer
	err := Run(Config{
		Args: []string{
			"grammarkit", "--mode=ll1", "--lexer=advanced",
			"--handle-duplicates=false", "--handle-duplicates-at-runtime=true",
			"digits",
		},
		Output: &output,
	})
	require.NoError(t, err)
	assert.Contains(t, output.String(), "number")
}

func TestCLIRejectsUnknownFixture(t *testing.T) {
	var output bytes.Buffer
	err := Run(Config{
		Args:   []string{"grammarkit", "nonexistent-fixture"},
		Output: &output,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent-fixture")
}

func TestCLIRequiresExactlyOnePositionalArg(t *testing.T) {
	var output bytes.Buffer
	err := Run(Config{
		Args:   []string{"grammarkit"},
		Output: &output,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")
}
