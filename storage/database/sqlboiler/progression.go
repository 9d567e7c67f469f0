package boiledrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
)

var tierColumns = map[achievement.TrackName]string{
	achievement.TrackBelt:  "belt_tier_index",
	achievement.TrackLevel: "level_tier_index",
}

type progressionRow struct {
	ID              string `boil:"id"`
	StoriesUploaded int64  `boil:"stories_uploaded_count"`
	RewardPoints    int64  `boil:"reward_points"`
	BeltTier        int    `boil:"belt_tier_index"`
	LevelTier       int    `boil:"level_tier_index"`
}

type progressionStore struct {
	exec boil.ContextExecutor
}

var _ achievement.Store = (*progressionStore)(nil) // interface compliance check

func NewProgressionStore(exec boil.ContextExecutor) achievement.Store {
	return &progressionStore{exec: exec}
}

// ReadProgression reads the counters and tier indices of userID in a single statement.
func (store *progressionStore) ReadProgression(ctx context.Context, userID string) (achievement.Progression, error) {
	var row progressionRow
	err := queries.Raw(`SELECT id, stories_uploaded_count, reward_points, belt_tier_index, level_tier_index
		FROM users WHERE id::text = $1`, userID).Bind(ctx, store.exec, &row)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return achievement.Progression{}, achievement.ErrNotFound
		}
		return achievement.Progression{}, errors.Wrap(err, "reading progression")
	}
	return achievement.Progression{
		UserID:          row.ID,
		StoriesUploaded: row.StoriesUploaded,
		RewardPoints:    row.RewardPoints,
		BeltTier:        row.BeltTier,
		LevelTier:       row.LevelTier,
	}, nil
}

// WriteTierIndex is a compare-and-set on the tier column of track.
func (store *progressionStore) WriteTierIndex(ctx context.Context, userID string, track achievement.TrackName, expected, next int) error {
	col, ok := tierColumns[track]
	if !ok {
		return errors.Errorf("boiledrepos: unknown track %q", track)
	}

	res, err := queries.Raw("UPDATE users SET "+col+" = $3 WHERE id::text = $1 AND "+col+" = $2",
		userID, expected, next).ExecContext(ctx, store.exec)
	if err != nil {
		return errors.Wrapf(err, "writing %s", col)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "writing %s", col)
	}
	if n > 0 {
		return nil
	}

	// no row matched: either the user is gone or another check won the race
	var exists bool
	if err := store.exec.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id::text = $1)", userID).Scan(&exists); err != nil {
		return errors.Wrap(err, "checking user")
	}
	if !exists {
		return achievement.ErrNotFound
	}
	return achievement.ErrConflict
}
