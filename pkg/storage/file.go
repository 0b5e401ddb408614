package storage

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists all keys in a single JSON file, rewritten wholesale on
// every write. Values are base64-encoded on disk so the file format never
// depends on what callers store; a bearer token is as valid a value as a
// serialized cart. Writes go through a temp file + rename so a crash
// mid-write never leaves a torn file behind.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

// NewFileStore creates a file-backed store at path, loading any existing
// contents. A missing file starts empty; an unreadable or malformed file
// also starts empty rather than failing, matching the recovery behavior of
// the stores built on top.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		values: make(map[string][]byte),
	}

	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		fs.values = decodeFile(data)
	} else if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return fs, nil
}

// decodeFile parses the on-disk map. Malformed JSON or a value that is not
// valid base64 yields an empty map.
func decodeFile(data []byte) map[string][]byte {
	var encoded map[string]string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return make(map[string][]byte)
	}

	values := make(map[string][]byte, len(encoded))
	for k, v := range encoded {
		raw, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return make(map[string][]byte)
		}
		values[k] = raw
	}
	return values
}

// Get retrieves the value for a key.
func (f *FileStore) Get(key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, ErrStoreClosed{}
	}

	v, ok := f.values[key]
	if !ok {
		return nil, nil
	}

	valueCopy := make([]byte, len(v))
	copy(valueCopy, v)
	return valueCopy, nil
}

// Set stores a value under a key and rewrites the backing file.
func (f *FileStore) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrStoreClosed{}
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	f.values[key] = valueCopy
	return f.flushLocked()
}

// Delete removes a key and rewrites the backing file.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrStoreClosed{}
	}

	if _, ok := f.values[key]; !ok {
		return nil
	}

	delete(f.values, key)
	return f.flushLocked()
}

// Close shuts down the store. Contents are already on disk, so Close only
// marks the store unusable.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}

	f.closed = true
	f.values = nil
	return nil
}

// Path returns the location of the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// flushLocked rewrites the backing file. Caller must hold the write lock.
func (f *FileStore) flushLocked() error {
	encoded := make(map[string]string, len(f.values))
	for k, v := range f.values {
		encoded[k] = base64.StdEncoding.EncodeToString(v)
	}

	data, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
