package recognizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDict(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCharset(t *testing.T) {
	path := writeDict(t, "a\nb\nc\n")

	cs, err := LoadCharset(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cs.Size())
	assert.Equal(t, []string{"a", "b", "c"}, cs.Tokens)
	assert.Equal(t, 1, cs.TokenToIndex["b"])
}

func TestLoadCharsetSkipsBlankLinesAndBOM(t *testing.T) {
	path := writeDict(t, "\uFEFFa\n\n  \nb\n")

	cs, err := LoadCharset(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cs.Tokens)
}

func TestLoadCharsetDuplicatesKeepFirst(t *testing.T) {
	path := writeDict(t, "a\nb\na\n")

	cs, err := LoadCharset(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cs.Size())
	assert.Equal(t, 0, cs.TokenToIndex["a"])
}

func TestLoadCharsetErrors(t *testing.T) {
	_, err := LoadCharset("")
	assert.Error(t, err)

	_, err = LoadCharset(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = LoadCharset(writeDict(t, "\n\n"))
	assert.Error(t, err)
}
