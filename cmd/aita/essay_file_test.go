package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadEssayFileAcceptsTextFamily(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"prose":  "My summer was long and warm.\n",
		"commas": "First, I went to the beach.\nThen, I swam all day.\nFinally, we drove home.\n",
		"json":   `{"essay": "not really an essay"}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".txt")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			text, err := readEssayFile(path)
			require.NoError(t, err)
			require.Equal(t, content, text)
		})
	}
}

func TestReadEssayFileRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o600))

	_, err := readEssayFile(path)
	require.ErrorContains(t, err, "image/png")
}
