package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stickerdash/stickerdash-backend/internal/feed"
)

type failingCloser struct {
	bytes.Buffer
	closed bool
}

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("disk full")
}

const gallery = `<html><body>
<div class="sticker"><img src="https://cdn.example.com/orpheus.png"><div class="name"> Orpheus </div></div>
<div class="sticker featured"><img src="https://cdn.example.com/dino.png"><div class="name">Dino</div></div>
</body></html>`

func TestRunWritesIndentedFeed(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "gallery.html")
	out := filepath.Join(dir, "stickers.json")
	require.NoError(t, os.WriteFile(in, []byte(gallery), 0o600))

	count, err := run(in, out)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	want := `[
  {
    "name": "Orpheus",
    "src": "https://cdn.example.com/orpheus.png"
  },
  {
    "name": "Dino",
    "src": "https://cdn.example.com/dino.png"
  }
]
`
	assert.Equal(t, want, string(got))
}

func TestRunMissingInput(t *testing.T) {
	_, err := run(filepath.Join(t.TempDir(), "missing.html"), "")
	assert.Error(t, err)
}

func TestWriteAndCloseReportsCloseFailure(t *testing.T) {
	dst := &failingCloser{}
	err := writeAndClose(dst, []feed.Entry{{Name: "Orpheus", Src: "https://cdn.example.com/orpheus.png"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close output: disk full")
	assert.True(t, dst.closed)
	assert.Contains(t, dst.String(), "Orpheus")
}
