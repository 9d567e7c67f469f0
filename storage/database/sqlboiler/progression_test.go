package boiledrepos

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
)

const (
	updateBelt  = "UPDATE users SET belt_tier_index = $3 WHERE id::text = $1 AND belt_tier_index = $2"
	updateLevel = "UPDATE users SET level_tier_index = $3 WHERE id::text = $1 AND level_tier_index = $2"
	userExists  = "SELECT EXISTS(SELECT 1 FROM users WHERE id::text = $1)"
)

func newMockStore(t *testing.T, matcher sqlmock.QueryMatcher) (achievement.Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewProgressionStore(db), mock
}

func TestWriteTierIndex(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name    string
		track   achievement.TrackName
		mock    func(m sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:  "belt written",
			track: achievement.TrackBelt,
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectExec(updateBelt).WithArgs("u1", 0, 1).WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "level written",
			track: achievement.TrackLevel,
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectExec(updateLevel).WithArgs("u1", 0, 1).WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "stale expected index",
			track: achievement.TrackBelt,
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectExec(updateBelt).WithArgs("u1", 0, 1).WillReturnResult(sqlmock.NewResult(0, 0))
				m.ExpectQuery(userExists).WithArgs("u1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: achievement.ErrConflict,
		},
		{
			name:  "user gone",
			track: achievement.TrackBelt,
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectExec(updateBelt).WithArgs("u1", 0, 1).WillReturnResult(sqlmock.NewResult(0, 0))
				m.ExpectQuery(userExists).WithArgs("u1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: achievement.ErrNotFound,
		},
		{
			name:  "update failure",
			track: achievement.TrackBelt,
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectExec(updateBelt).WithArgs("u1", 0, 1).WillReturnError(down)
			},
			wantErr: down,
		},
		{
			name:  "existence check failure",
			track: achievement.TrackLevel,
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectExec(updateLevel).WithArgs("u1", 0, 1).WillReturnResult(sqlmock.NewResult(0, 0))
				m.ExpectQuery(userExists).WithArgs("u1").WillReturnError(down)
			},
			wantErr: down,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t, sqlmock.QueryMatcherEqual)
			tt.mock(mock)

			err := store.WriteTierIndex(context.Background(), "u1", tt.track, 0, 1)
			assert.Equal(t, tt.wantErr, errors.Cause(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWriteTierIndex_unknownTrack(t *testing.T) {
	store, mock := newMockStore(t, sqlmock.QueryMatcherEqual)
	assert.Error(t, store.WriteTierIndex(context.Background(), "u1", "stars", 0, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadProgression(t *testing.T) {
	cols := []string{"id", "stories_uploaded_count", "reward_points", "belt_tier_index", "level_tier_index"}

	store, mock := newMockStore(t, sqlmock.QueryMatcherRegexp)
	mock.ExpectQuery("SELECT id, stories_uploaded_count").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", 4, 120, 2, 3))
	got, err := store.ReadProgression(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, achievement.Progression{UserID: "u1", StoriesUploaded: 4, RewardPoints: 120, BeltTier: 2, LevelTier: 3}, got)

	mock.ExpectQuery("SELECT id, stories_uploaded_count").WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(cols))
	_, err = store.ReadProgression(context.Background(), "ghost")
	assert.Equal(t, achievement.ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
