package inmemdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
)

type progressionStore struct {
	db *DB
}

var _ achievement.Store = (*progressionStore)(nil) // interface compliance check

func NewProgressionStore(db *DB) achievement.Store {
	return &progressionStore{db: db}
}

func (store *progressionStore) ReadProgression(_ context.Context, userID string) (achievement.Progression, error) {
	store.db.RLock()
	defer store.db.RUnlock()

	usr, ok := store.db.users[userID]
	if !ok {
		return achievement.Progression{}, achievement.ErrNotFound
	}
	return usr.Progression(), nil
}

func (store *progressionStore) WriteTierIndex(_ context.Context, userID string, track achievement.TrackName, expected, next int) error {
	store.db.Lock()
	defer store.db.Unlock()

	usr, ok := store.db.users[userID]
	if !ok {
		return achievement.ErrNotFound
	}
	var stored *int
	switch track {
	case achievement.TrackBelt:
		stored = &usr.BeltTier
	case achievement.TrackLevel:
		stored = &usr.LevelTier
	default:
		return errors.Errorf("inmemdb: unknown track %q", track)
	}
	if *stored != expected {
		return achievement.ErrConflict
	}
	*stored = next
	return nil
}

// SetCounters overwrites the progression counters of userID. Meant for tests and fixtures.
func (db *DB) SetCounters(userID string, storiesUploaded, rewardPoints int64) error {
	db.Lock()
	defer db.Unlock()

	usr, ok := db.users[userID]
	if !ok {
		return achievement.ErrNotFound
	}
	usr.StoriesUploaded = storiesUploaded
	usr.RewardPoints = rewardPoints
	return nil
}
