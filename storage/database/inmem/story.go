package inmemdb

import (
	"context"
	"sort"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/story"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

type storyRepository struct {
	db *DB
}

var _ story.Repository = (*storyRepository)(nil) // interface compliance check

func NewStoryRepository(db *DB) story.Repository {
	return &storyRepository{db: db}
}

func (repo *storyRepository) Create(_ context.Context, s story.Story) (story.Story, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	author, ok := repo.db.users[s.AuthorID]
	if !ok {
		return story.Story{}, user.ErrNotFound
	}
	repo.db.stories[s.ID] = &s
	author.StoriesUploaded++
	return s, nil
}

func (repo *storyRepository) GetByID(_ context.Context, id string) (story.Story, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.stories[id]; ok {
		return *s, nil
	}
	return story.Story{}, story.ErrNotFound
}

func (repo *storyRepository) ListByAuthor(_ context.Context, authorID string) ([]story.Story, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	stories := make([]story.Story, 0)
	for _, s := range repo.db.stories {
		if s.AuthorID == authorID {
			stories = append(stories, *s)
		}
	}
	sort.Slice(stories, func(i, j int) bool { return stories[i].CreatedAt.After(stories[j].CreatedAt) })
	return stories, nil
}
