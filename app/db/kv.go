package db

// KV is a key-value persistence facility holding opaque blobs
type KV interface {
	// Get returns value stored under key or ErrNotFound
	Get(key string) ([]byte, error)
	// Put replaces value stored under key
	Put(key string, value []byte) error
}
