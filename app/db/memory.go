package db

import "sync"

// InMemoryKV implements KV on top of a map
type InMemoryKV struct {
	data map[string][]byte
	mx   sync.RWMutex
}

func (d *InMemoryKV) Get(key string) ([]byte, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	value, ok := d.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (d *InMemoryKV) Put(key string, value []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.data[key] = append([]byte(nil), value...)
	return nil
}

func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{data: make(map[string][]byte)}
}
