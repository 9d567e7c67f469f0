package inmemdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/quiz"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/story"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

func TestProgressionStore(t *testing.T) {
	ctx := context.Background()
	db := Open()
	store := NewProgressionStore(db)

	_, err := store.ReadProgression(ctx, "u1")
	assert.Equal(t, achievement.ErrNotFound, err)
	assert.Equal(t, achievement.ErrNotFound, store.WriteTierIndex(ctx, "u1", achievement.TrackBelt, 0, 1))

	_, err = NewUserRepository(db).Create(ctx, user.User{ID: "u1", BeltTier: 4, RewardPoints: 99})
	require.NoError(t, err)
	require.NoError(t, db.SetCounters("u1", 3, 120))

	prog, err := store.ReadProgression(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, achievement.Progression{UserID: "u1", StoriesUploaded: 3, RewardPoints: 120}, prog)

	require.NoError(t, store.WriteTierIndex(ctx, "u1", achievement.TrackBelt, 0, 2))
	assert.Equal(t, achievement.ErrConflict, store.WriteTierIndex(ctx, "u1", achievement.TrackBelt, 0, 3))
	require.NoError(t, store.WriteTierIndex(ctx, "u1", achievement.TrackLevel, 0, 4))
	assert.Error(t, store.WriteTierIndex(ctx, "u1", "stars", 0, 1))

	prog, err = store.ReadProgression(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, prog.BeltTier)
	assert.Equal(t, 4, prog.LevelTier)
}

func TestProgressionStoreConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	db := Open()
	store := NewProgressionStore(db)
	_, err := NewUserRepository(db).Create(ctx, user.User{ID: "u1"})
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.WriteTierIndex(ctx, "u1", achievement.TrackBelt, 0, 1) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestStoryAndQuizCounters(t *testing.T) {
	ctx := context.Background()
	db := Open()
	users := NewUserRepository(db)
	stories := NewStoryRepository(db)
	quizzes := NewQuizRepository(db)

	_, err := users.Create(ctx, user.User{ID: "u1"})
	require.NoError(t, err)

	_, err = stories.Create(ctx, story.Story{ID: "s0", AuthorID: "nobody"})
	assert.Equal(t, user.ErrNotFound, err)

	now := time.Now().UTC()
	for i, id := range []string{"s1", "s2"} {
		_, err := stories.Create(ctx, story.Story{ID: id, AuthorID: "u1", CreatedAt: now.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	list, err := stories.ListByAuthor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].ID)

	_, err = stories.GetByID(ctx, "nope")
	assert.Equal(t, story.ErrNotFound, err)

	_, _, err = quizzes.Complete(ctx, quiz.Completion{UserID: "u1", StoryID: "nope", Points: 10})
	assert.Equal(t, quiz.ErrStoryNotFound, err)

	c, first, err := quizzes.Complete(ctx, quiz.Completion{UserID: "u1", StoryID: "s1", Score: 70, Points: 10})
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, 70, c.Score)
	c, first, err = quizzes.Complete(ctx, quiz.Completion{UserID: "u1", StoryID: "s1", Score: 90, Points: 10})
	require.NoError(t, err)
	assert.False(t, first)
	assert.Equal(t, 70, c.Score)

	usr, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, usr.StoriesUploaded)
	assert.EqualValues(t, 10, usr.RewardPoints)

	// profile updates leave the progression alone
	usr.Name = "Renamed"
	usr.StoriesUploaded = 0
	updated, err := users.Update(ctx, usr)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.EqualValues(t, 2, updated.StoriesUploaded)

	require.NoError(t, users.Delete(ctx, "u1"))
	list, err = stories.ListByAuthor(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserFilter(t *testing.T) {
	ctx := context.Background()
	db := Open()
	users := NewUserRepository(db)
	now := time.Now().UTC()
	for i, u := range []user.User{
		{ID: "1", Name: "Zed", Username: "zed", Email: "zed@test.test", IsActive: true, Roles: []string{user.RoleStudent}},
		{ID: "2", Name: "Amy", Username: "amy", Email: "amy@test.test", Roles: []string{user.RoleTeacher}},
		{ID: "3", Name: "Bob", Username: "bob", Email: "bob@test.test", IsActive: true, Roles: []string{user.RoleStudent}},
	} {
		u.CreatedAt = now.Add(time.Duration(i) * time.Second)
		_, err := users.Create(ctx, u)
		require.NoError(t, err)
	}
	active := true

	tests := []struct {
		name      string
		filter    *user.QueryFilter
		orderings []core.DBOrdering
		want      []string
	}{
		{name: "all", want: []string{"1", "2", "3"}},
		{name: "search", filter: &user.QueryFilter{Search: "AM"}, want: []string{"2"}},
		{name: "active by name", filter: &user.QueryFilter{IsActive: &active}, orderings: []core.DBOrdering{{Field: "name", Ascending: true}}, want: []string{"3", "1"}},
		{name: "role", filter: &user.QueryFilter{Roles: []string{user.RoleTeacher}}, want: []string{"2"}},
		{name: "unknown ordering ignored", orderings: []core.DBOrdering{{Field: "password_hash"}}, want: []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := users.Filter(ctx, tt.filter, tt.orderings)
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, u := range got {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	assert.Equal(t, user.ErrUsernameExists, users.CheckUsernameUniqueness(ctx, "amy", ""))
	assert.Equal(t, user.ErrEmailExists, users.CheckUsernameUniqueness(ctx, "", "bob@test.test"))
	assert.NoError(t, users.CheckUsernameUniqueness(ctx, "amy", "", user.User{ID: "2"}))
}
