package cfgopts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[profiles.strict]
name = "strict"

[profiles.strict.tokenizer]
mode = "advanced"
handle_duplicates = true

[profiles.strict.parser]
mode = "shiftreduce"
lookahead = true
heuristic_ctx = true

[profiles.loose]
name = "loose"

[profiles.loose.tokenizer]
mode = "legacy"

[profiles.loose.parser]
mode = "ll1"
policy = "longest"

[profiles.deferred]
name = "deferred"

[profiles.deferred.tokenizer]
mode = "advanced"
handle_duplicates_at_runtime = true

[profiles.deferred.parser]
mode = "ll1"
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))
	return path
}

func TestLoadProfilesParsesNamedTables(t *testing.T) {
	doc, err := LoadProfiles(writeSample(t))
	require.NoError(t, err)

	strict, err := doc.Profile("strict")
	require.NoError(t, err)
	assert.Equal(t, Advanced, strict.Tokenizer.Mode)
	assert.True(t, strict.Tokenizer.HandleDuplicates)
	assert.Equal(t, ShiftReduce, strict.Parser.Mode)
	assert.True(t, strict.Parser.Lookahead)
	assert.True(t, strict.Parser.HeuristicCtx)

	loose, err := doc.Profile("loose")
	require.NoError(t, err)
	assert.Equal(t, Legacy, loose.Tokenizer.Mode)
	assert.Equal(t, "longest", loose.Parser.Policy)
}

func TestLoadProfilesParsesHandleDuplicatesAtRuntime(t *testing.T) {
	doc, err := LoadProfiles(writeSample(t))
	require.NoError(t, err)

	deferred, err := doc.Profile("deferred")
	require.NoError(t, err)
	assert.False(t, deferred.Tokenizer.HandleDuplicates)
	assert.True(t, deferred.Tokenizer.HandleDuplicatesAtRuntime)
}

func TestProfileErrorsOnUnknownName(t *testing.T) {
	doc, err := LoadProfiles(writeSample(t))
	require.NoError(t, err)
	_, err = doc.Profile("nonexistent")
	assert.Error(t, err)
}

func TestDefaultProfileIsAdvancedLL1(t *testing.T) {
	d := Default()
	assert.Equal(t, Advanced, d.Tokenizer.Mode)
	assert.Equal(t, LL1, d.Parser.Mode)
}
