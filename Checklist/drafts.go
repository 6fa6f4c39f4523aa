package Checklist

import (
	"encoding/json"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"Vistoria/AppErrors"
)

// draftTTL keeps abandoned drafts from piling up. A week is far beyond any
// realistic in-progress inspection.
const draftTTL = 7 * 24 * time.Hour

const draftPrefix = "draft:"

// Draft is the accumulated, not-yet-submitted state of one wizard session.
// It is persisted after every screen transition so that killing and
// relaunching the client resumes the same session and, once allocated, the
// same inspection id.
type Draft struct {
	ClientKey    string            `json:"client_key"`
	InspectionID uint              `json:"inspection_id,omitempty"`
	Plate        string            `json:"plate"`
	Screen       string            `json:"screen"`
	Fields       map[string]string `json:"fields,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// DraftStore is a durable local store for in-progress sessions, keyed by
// client key, independent of network connectivity.
type DraftStore struct {
	db *badger.DB
}

// OpenDraftStore opens the store at dir. An empty dir opens an in-memory
// store, used by tests.
func OpenDraftStore(dir string) (*DraftStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, AppErrors.Storage("open draft store", err)
	}
	return &DraftStore{db: db}, nil
}

func (s *DraftStore) Close() error {
	return s.db.Close()
}

// NewClientKey allocates a key for a fresh session.
func (s *DraftStore) NewClientKey() string {
	return uuid.NewString()
}

// Save persists the draft under its client key.
func (s *DraftStore) Save(d Draft) error {
	if d.ClientKey == "" {
		return AppErrors.Validation("client_key", "required")
	}
	d.UpdatedAt = time.Now()

	payload, err := json.Marshal(d)
	if err != nil {
		return AppErrors.Storage("encode draft", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(draftPrefix+d.ClientKey), payload).WithTTL(draftTTL)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return AppErrors.Storage("save draft", err)
	}
	return nil
}

// Load returns the draft for a client key, or not-found.
func (s *DraftStore) Load(clientKey string) (*Draft, error) {
	var d Draft
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(draftPrefix + clientKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &d)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, AppErrors.NotFound("draft", clientKey)
	}
	if err != nil {
		return nil, AppErrors.Storage("load draft", err)
	}
	return &d, nil
}

// Delete discards a draft. Used by the explicit "start over" action.
func (s *DraftStore) Delete(clientKey string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(draftPrefix + clientKey))
	})
	if err != nil {
		return AppErrors.Storage("delete draft", err)
	}
	return nil
}

// RunGC reclaims value-log space. Scheduled by CronJobs; badger asks callers
// to loop until the GC reports nothing left to collect.
func (s *DraftStore) RunGC() {
	for {
		if err := s.db.RunValueLogGC(0.5); err != nil {
			return
		}
	}
}
