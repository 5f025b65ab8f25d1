package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/okian/melodex/internal/domain/model"
)

// profileKeyPrefix namespaces profile records inside the key space.
const profileKeyPrefix = "profile:"

// BadgerStore is a Store backed by BadgerDB, giving the ledger durability
// across restarts. Profiles are stored as JSON values under a prefixed
// key per user; badger transactions make UpdateProfile atomic.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a badger database at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrPersistence, dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreWithDB wraps an already-open database, used by tests.
func NewBadgerStoreWithDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func profileKey(userID string) []byte {
	return []byte(profileKeyPrefix + userID)
}

// LoadProfile returns the stored profile, or an empty default when the
// user has no record yet.
func (s *BadgerStore) LoadProfile(ctx context.Context, userID string) (model.Profile, error) {
	var p model.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			p = model.NewProfile()
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return model.Profile{}, fmt.Errorf("%w: load profile %s: %v", ErrPersistence, userID, err)
	}
	return p, nil
}

// SaveProfile stores a full profile, replacing prior state.
func (s *BadgerStore) SaveProfile(ctx context.Context, userID string, p model.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: marshal profile %s: %v", ErrPersistence, userID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(userID), data)
	})
	if err != nil {
		return fmt.Errorf("%w: save profile %s: %v", ErrPersistence, userID, err)
	}
	return nil
}

// UpdateProfile applies fn inside one read-modify-write transaction.
func (s *BadgerStore) UpdateProfile(ctx context.Context, userID string, fn func(*model.Profile)) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		p := model.NewProfile()
		item, err := txn.Get(profileKey(userID))
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		fn(&p)

		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return txn.Set(profileKey(userID), data)
	})
	if err != nil {
		return fmt.Errorf("%w: update profile %s: %v", ErrPersistence, userID, err)
	}
	return nil
}

// Profiles returns a snapshot of every stored profile.
func (s *BadgerStore) Profiles(ctx context.Context) ([]model.Profile, error) {
	var out []model.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profileKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var p model.Profile
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list profiles: %v", ErrPersistence, err)
	}
	return out, nil
}

// Count returns the number of stored profiles.
func (s *BadgerStore) Count(ctx context.Context) int {
	n := 0
	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profileKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrPersistence, err)
	}
	return nil
}
