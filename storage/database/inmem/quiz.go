package inmemdb

import (
	"context"
	"sort"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/quiz"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

type quizRepository struct {
	db *DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{db: db}
}

func (repo *quizRepository) Complete(_ context.Context, c quiz.Completion) (quiz.Completion, bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.users[c.UserID]
	if !ok {
		return quiz.Completion{}, false, user.ErrNotFound
	}
	if _, ok := repo.db.stories[c.StoryID]; !ok {
		return quiz.Completion{}, false, quiz.ErrStoryNotFound
	}

	key := completionKey{userID: c.UserID, storyID: c.StoryID}
	if existing, ok := repo.db.completions[key]; ok {
		return *existing, false, nil
	}
	repo.db.completions[key] = &c
	usr.RewardPoints += c.Points
	return c, true, nil
}

func (repo *quizRepository) ListByUser(_ context.Context, userID string) ([]quiz.Completion, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	completions := make([]quiz.Completion, 0)
	for key, c := range repo.db.completions {
		if key.userID == userID {
			completions = append(completions, *c)
		}
	}
	sort.Slice(completions, func(i, j int) bool { return completions[i].CompletedAt.After(completions[j].CompletedAt) })
	return completions, nil
}
