package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// collectionsKey is the single key holding all collections
const collectionsKey = "saved_collections"

var (
	// ErrCorruptState is returned when stored collections can't be decoded
	ErrCorruptState = errors.New("corrupt collections state")
	// ErrPersist is returned when collections can't be encoded or written
	ErrPersist = errors.New("failed to persist collections")
)

// Outcome describes effect of a mutating store call
type Outcome int

const (
	// Applied means state was changed and saved
	Applied Outcome = iota
	// Unchanged means target exists but there was nothing to change
	Unchanged
	// CollectionNotFound means target collection is absent, call is a no-op
	CollectionNotFound
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Unchanged:
		return "unchanged"
	case CollectionNotFound:
		return "collection not found"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// CollectionStore owns all reads and writes of collections.
// Every call loads the whole list, mutates it and writes it back.
type CollectionStore struct {
	kv KV
	mx sync.Mutex
}

// NewCollectionStore creates store on top of given KV
func NewCollectionStore(kv KV) *CollectionStore {
	return &CollectionStore{kv: kv}
}

// load reads collections. Missing blob is an empty list.
func (s *CollectionStore) load() ([]Collection, error) {
	data, err := s.kv.Get(collectionsKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Collection{}, nil
		}
		return nil, fmt.Errorf("read collections: %w", err)
	}
	var collections []Collection
	if err := json.Unmarshal(data, &collections); err != nil {
		return []Collection{}, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	if collections == nil {
		collections = []Collection{}
	}
	return collections, nil
}

// loadForUpdate is load with corrupt state recovered as an empty list
func (s *CollectionStore) loadForUpdate() ([]Collection, error) {
	collections, err := s.load()
	if err != nil {
		if !errors.Is(err, ErrCorruptState) {
			return nil, err
		}
		log.Warn().Err(err).Msg("corrupt collections state, starting from empty list")
	}
	return collections, nil
}

func (s *CollectionStore) save(collections []Collection) error {
	data, err := json.Marshal(collections)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal collections")
		return fmt.Errorf("%w: marshal: %w", ErrPersist, err)
	}
	if err := s.kv.Put(collectionsKey, data); err != nil {
		log.Error().Err(err).Msg("failed to save collections")
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func findCollection(collections []Collection, id string) int {
	for idx, c := range collections {
		if c.ID == id {
			return idx
		}
	}
	return -1
}

// All returns all collections in creation order.
// Corrupt state is reported with ErrCorruptState together with an empty list.
func (s *CollectionStore) All() ([]Collection, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	collections, err := s.load()
	if err != nil {
		if errors.Is(err, ErrCorruptState) {
			log.Error().Err(err).Msg("failed to decode collections")
			return []Collection{}, err
		}
		return nil, err
	}
	return collections, nil
}

// Create appends new empty collection with given title
func (s *CollectionStore) Create(title string) (Collection, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	collections, err := s.loadForUpdate()
	if err != nil {
		return Collection{}, err
	}
	collection := Collection{ID: GenerateID(), Title: title, Words: []DictionaryEntry{}}
	collections = append(collections, collection)
	if err := s.save(collections); err != nil {
		return Collection{}, err
	}
	log.Debug().Str("collection", collection.ID).Str("title", title).Msg("collection created")
	return collection, nil
}

// Get returns collection by ID or ErrNotFound
func (s *CollectionStore) Get(id string) (Collection, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	collections, err := s.load()
	if err != nil {
		return Collection{}, err
	}
	idx := findCollection(collections, id)
	if idx < 0 {
		return Collection{}, ErrNotFound
	}
	return collections[idx], nil
}

// CollectionsWith returns collections that contain word with given slug
func (s *CollectionStore) CollectionsWith(slug string) ([]Collection, error) {
	collections, err := s.All()
	if err != nil {
		return nil, err
	}
	res := make([]Collection, 0)
	for _, c := range collections {
		if c.Contains(slug) {
			res = append(res, c)
		}
	}
	return res, nil
}

// AddWord appends entry to collection unless word is already there
func (s *CollectionStore) AddWord(entry DictionaryEntry, collectionID string) (Outcome, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	collections, err := s.loadForUpdate()
	if err != nil {
		return Unchanged, err
	}
	idx := findCollection(collections, collectionID)
	if idx < 0 {
		return CollectionNotFound, nil
	}
	if collections[idx].Contains(entry.Slug) {
		return Unchanged, nil
	}
	collections[idx].Words = append(collections[idx].Words, entry)
	if err := s.save(collections); err != nil {
		return Unchanged, err
	}
	return Applied, nil
}

// RemoveWord removes all entries with the same slug from collection
func (s *CollectionStore) RemoveWord(entry DictionaryEntry, collectionID string) (Outcome, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	collections, err := s.loadForUpdate()
	if err != nil {
		return Unchanged, err
	}
	idx := findCollection(collections, collectionID)
	if idx < 0 {
		return CollectionNotFound, nil
	}
	words := collections[idx].Words
	kept := make([]DictionaryEntry, 0, len(words))
	for _, w := range words {
		if !w.SameWord(entry) {
			kept = append(kept, w)
		}
	}
	collections[idx].Words = kept
	if err := s.save(collections); err != nil {
		return Unchanged, err
	}
	if len(kept) == len(words) {
		return Unchanged, nil
	}
	return Applied, nil
}

// Rename changes collection title
func (s *CollectionStore) Rename(id string, title string) (Outcome, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	collections, err := s.loadForUpdate()
	if err != nil {
		return Unchanged, err
	}
	idx := findCollection(collections, id)
	if idx < 0 {
		return CollectionNotFound, nil
	}
	if collections[idx].Title == title {
		return Unchanged, nil
	}
	collections[idx].Title = title
	if err := s.save(collections); err != nil {
		return Unchanged, err
	}
	return Applied, nil
}

// Delete removes collection with all its words
func (s *CollectionStore) Delete(id string) (Outcome, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	collections, err := s.loadForUpdate()
	if err != nil {
		return Unchanged, err
	}
	idx := findCollection(collections, id)
	if idx < 0 {
		return CollectionNotFound, nil
	}
	collections = append(collections[:idx], collections[idx+1:]...)
	if err := s.save(collections); err != nil {
		return Unchanged, err
	}
	log.Debug().Str("collection", id).Msg("collection deleted")
	return Applied, nil
}
