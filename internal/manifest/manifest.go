// Package manifest builds the per-product version.json recording a content
// hash and byte size for every artifact, consumed by clients for cache
// invalidation.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/distbuilder/internal/jsonutil"
)

// FileName is the manifest's name at the product output root.
const FileName = "version.json"

// HashPrefix identifies the hash algorithm in every manifest entry.
// The algorithm is a fixed configuration constant, not a parameter.
const HashPrefix = "sha256:"

// FileEntry records one artifact's content hash and byte size.
type FileEntry struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// Manifest is the version.json document for one product build.
type Manifest struct {
	Version     string               `json:"version"`
	Environment string               `json:"environment"`
	GeneratedAt time.Time            `json:"generated_at"`
	Files       map[string]FileEntry `json:"files"`
}

// Generate walks root and records every regular file except the manifest
// itself. Hashes are computed over the final on-disk bytes; keys are
// slash-separated paths relative to root.
func Generate(root, version, environment string, generatedAt time.Time) (*Manifest, error) {
	m := &Manifest{
		Version:     version,
		Environment: environment,
		GeneratedAt: generatedAt.UTC(),
		Files:       make(map[string]FileEntry),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() == FileName {
			return nil
		}

		hash, size, err := HashFile(path)
		if err != nil {
			return fmt.Errorf("hash %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		m.Files[filepath.ToSlash(rel)] = FileEntry{Hash: hash, Size: size}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Write serializes the manifest to root/version.json (pretty, like every
// other artifact).
func (m *Manifest) Write(root string) error {
	data, err := jsonutil.MarshalPretty(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(root, FileName), data, 0o644)
}

// Read loads a manifest from root/version.json.
func Read(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash over the manifest's file map, ignoring
// the generation timestamp. Two builds of identical sources share this value.
func (m *Manifest) Hash() (string, error) {
	data, err := json.Marshal(m.Files)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// HashFile returns the prefixed content hash and byte size of a file.
func HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return HashPrefix + hex.EncodeToString(h.Sum(nil)), size, nil
}
