package storage

import (
	"io"
	"os"
	"path/filepath"
)

// Store: port penyimpanan file bukti. Handler tidak perlu tahu filesystem.
type Store interface {
	Save(key string, r io.Reader) (url string, err error)
	Delete(key string) error
}

// LocalStore menulis di bawah baseDir dan mengekspos path publik /uploads/...
type LocalStore struct {
	BaseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{BaseDir: baseDir}
}

func (s *LocalStore) Save(key string, r io.Reader) (string, error) {
	full := filepath.Join(s.BaseDir, key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", err
	}
	return "/uploads/" + filepath.ToSlash(key), nil
}

func (s *LocalStore) Delete(key string) error {
	return os.Remove(filepath.Join(s.BaseDir, key))
}
