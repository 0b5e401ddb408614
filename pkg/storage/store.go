package storage

// Store defines the interface for the durable local key-value storage that
// backs the session and cart stores. Implementations must be safe for
// concurrent use.
//
// Values are short strings (serialized JSON) read once at store construction
// and rewritten wholesale on every mutation; there are no incremental writes.
type Store interface {
	// Get retrieves the value for a key.
	// Returns (nil, nil) if the key doesn't exist.
	// Returns (value, nil) if found.
	// Returns (nil, err) on backend errors.
	Get(key string) ([]byte, error)

	// Set stores a value under a key, overwriting any previous value.
	Set(key string, value []byte) error

	// Delete removes a key. Should not return an error if the key
	// doesn't exist.
	Delete(key string) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrStoreClosed is returned when operations are attempted on a closed store.
type ErrStoreClosed struct{}

func (e ErrStoreClosed) Error() string {
	return "local store is closed"
}
