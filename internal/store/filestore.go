package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// storageVersion is the on-disk envelope version. Files without a version
// field unmarshal with Version 0 and are accepted as-is.
const storageVersion = 1

type envelope struct {
	Version int                        `json:"version"`
	Data    map[string]json.RawMessage `json:"data"`
}

// FileStore is a Store backed by a single JSON file. Writes rewrite the whole
// file through a temp-file rename so a crash never leaves a torn document.
type FileStore struct {
	path string

	mu   sync.Mutex
	data map[string]json.RawMessage
}

// OpenFile loads (or creates) a file-backed store at path.
func OpenFile(path string) (*FileStore, error) {
	fs := &FileStore{
		path: path,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", path, err)
	}
	if env.Data != nil {
		fs.data = env.Data
	}
	return fs, nil
}

// Get unmarshals the value at key into out.
func (fs *FileStore) Get(key string, out any) error {
	fs.mu.Lock()
	raw, ok := fs.data[key]
	fs.mu.Unlock()

	if !ok {
		return ErrKeyNotFound
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode value for %q: %w", key, err)
	}
	return nil
}

// Put persists val at key, flushing the whole store to disk.
func (fs *FileStore) Put(key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	prev, had := fs.data[key]
	fs.data[key] = raw
	if err := fs.flushLocked(); err != nil {
		// keep memory consistent with disk on failure
		if had {
			fs.data[key] = prev
		} else {
			delete(fs.data, key)
		}
		return err
	}
	return nil
}

// Delete removes key and flushes.
func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	prev, had := fs.data[key]
	if !had {
		return nil
	}
	delete(fs.data, key)
	if err := fs.flushLocked(); err != nil {
		fs.data[key] = prev
		return err
	}
	return nil
}

func (fs *FileStore) flushLocked() error {
	env := envelope{Version: storageVersion, Data: fs.data}
	raw, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".motormate-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
