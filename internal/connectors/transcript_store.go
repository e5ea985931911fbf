package connectors

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"debatetxt/internal"
)

// TranscriptRecorder keeps the ledger of downloaded files.
type TranscriptRecorder interface {
	UpsertTranscript(file internal.TranscriptFile) error
	SetMetadata(key, value string) error
}

type TranscriptStore struct {
	db  TranscriptRecorder
	dir string
}

func NewTranscriptStore(db TranscriptRecorder, dir string) *TranscriptStore {
	return &TranscriptStore{db: db, dir: dir}
}

// Store writes raw under its listing name unless an identical file is already
// there, and records it. The boolean reports whether the file was written.
func (s *TranscriptStore) Store(listing Listing, raw []byte) (internal.TranscriptFile, bool, error) {
	hashBytes := sha256.Sum256(raw)
	file := internal.TranscriptFile{
		Name: listing.Name,
		URL:  listing.URL,
		Hash: hex.EncodeToString(hashBytes[:]),
		Path: filepath.Join(s.dir, listing.Name),
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return file, false, err
	}

	written := false
	existing, err := os.ReadFile(file.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist) || (err == nil && !sameHash(existing, hashBytes)):
		if err := os.WriteFile(file.Path, raw, 0o644); err != nil {
			return file, false, err
		}
		written = true
	case err != nil:
		return file, false, err
	}

	if s.db != nil {
		if err := s.db.UpsertTranscript(file); err != nil {
			return file, written, err
		}
	}
	return file, written, nil
}

func sameHash(existing []byte, want [sha256.Size]byte) bool {
	got := sha256.Sum256(existing)
	return bytes.Equal(got[:], want[:])
}
