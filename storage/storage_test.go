package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir)

	url, err := s.Save("proofs/abc.jpg", strings.NewReader("isi nota"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/proofs/abc.jpg", url)

	b, err := os.ReadFile(filepath.Join(dir, "proofs", "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "isi nota", string(b))

	require.NoError(t, s.Delete("proofs/abc.jpg"))
	_, err = os.Stat(filepath.Join(dir, "proofs", "abc.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStoreDeleteMissing(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	assert.Error(t, s.Delete("proofs/tidak-ada.jpg"))
}
