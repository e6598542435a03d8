// Package store provides the persistent string key-value substrate the
// day-scoped cache writes through, plus its snapshot persistence and
// the on-disk illustration archive.
package store

import (
	"fmt"
	"os"
	"sync"

	json "github.com/goccy/go-json"
	"chronicle/internal/store/interfaces"
	"chronicle/internal/structures"
)

// KVStore is the substrate contract: string-keyed, string-valued, with
// a capacity ceiling Set may fail against. Callers treat Set failures
// as best-effort losses, never as fatal.
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string)
}

const storageVersion = 1

type storageEnvelope struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// FileStore is a mutex-guarded in-memory map persisted as a single
// zstd-compressed JSON snapshot. Concurrent reads are safe; writes to
// the same key are last-write-wins.
type FileStore struct {
	mu            sync.RWMutex
	entries       map[string]string
	compressor    interfaces.CompressorInterface
	maxEntryBytes int
}

func NewFileStore(conf *structures.Config, compressor interfaces.CompressorInterface) *FileStore {
	return &FileStore{
		entries:       make(map[string]string),
		compressor:    compressor,
		maxEntryBytes: conf.Chronicle.MaxEntryBytes,
	}
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.entries[key]
	return val, ok
}

func (s *FileStore) Set(key, value string) error {
	if s.maxEntryBytes > 0 && len(value) > s.maxEntryBytes {
		return fmt.Errorf("entry %q exceeds %d bytes", key, s.maxEntryBytes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *FileStore) snapshot() storageEnvelope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		entries[k] = v
	}
	return storageEnvelope{Version: storageVersion, Entries: entries}
}

func (s *FileStore) SaveToFile(fileName string) error {
	jsonData, err := json.Marshal(s.snapshot())
	if err != nil {
		return err
	}
	data, err := s.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (s *FileStore) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := s.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var envelope storageEnvelope
	if err := json.Unmarshal(decompressed, &envelope); err != nil {
		return err
	}
	if envelope.Entries == nil {
		envelope.Entries = make(map[string]string)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = envelope.Entries
	return nil
}
