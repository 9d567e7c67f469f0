package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/quiz"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

const (
	completionColumns  = "user_id, story_id, score, points, completed_at"
	foreignKeyViolated = "23503"
	invalidTextRepr    = "22P02" // e.g. a story ID that is not a UUID
)

type quizRepository struct {
	db *sqlx.DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *sqlx.DB) quiz.Repository {
	return &quizRepository{db: db}
}

func (repo *quizRepository) Complete(ctx context.Context, c quiz.Completion) (quiz.Completion, bool, error) {
	var first bool
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO quiz_completions ("+completionColumns+`) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, story_id) DO NOTHING`,
			c.UserID, c.StoryID, c.Score, c.Points, c.CompletedAt.UTC())
		if err != nil {
			return trapForeignKeyErr(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "inserting completion")
		}
		if n == 0 { // already completed
			return nil
		}
		first = true
		_, err = tx.ExecContext(ctx, "UPDATE users SET reward_points = reward_points + $2 WHERE id = $1", c.UserID, c.Points)
		return errors.Wrap(err, "awarding reward points")
	})
	if err != nil {
		return quiz.Completion{}, false, err
	}
	if first {
		return c, true, nil
	}

	stored, err := repo.get(ctx, c.UserID, c.StoryID)
	return stored, false, err
}

func (repo *quizRepository) get(ctx context.Context, userID, storyID string) (quiz.Completion, error) {
	var c quiz.Completion
	row := repo.db.QueryRowxContext(ctx,
		"SELECT "+completionColumns+" FROM quiz_completions WHERE user_id = $1 AND story_id = $2", userID, storyID)
	if err := row.Scan(&c.UserID, &c.StoryID, &c.Score, &c.Points, &c.CompletedAt); err != nil {
		return quiz.Completion{}, errors.Wrap(err, "getting completion")
	}
	c.CompletedAt = c.CompletedAt.UTC()
	return c, nil
}

func (repo *quizRepository) ListByUser(ctx context.Context, userID string) ([]quiz.Completion, error) {
	rows, err := repo.db.QueryxContext(ctx,
		"SELECT "+completionColumns+" FROM quiz_completions WHERE user_id::text = $1 ORDER BY completed_at DESC", userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing completions")
	}
	defer func() { _ = rows.Close() }()

	completions := make([]quiz.Completion, 0)
	for rows.Next() {
		var c quiz.Completion
		if err := rows.Scan(&c.UserID, &c.StoryID, &c.Score, &c.Points, &c.CompletedAt); err != nil {
			return nil, errors.Wrap(err, "scanning completion")
		}
		c.CompletedAt = c.CompletedAt.UTC()
		completions = append(completions, c)
	}
	return completions, errors.Wrap(rows.Err(), "listing completions")
}

func trapForeignKeyErr(err error) error {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		switch string(pqErr.Code) {
		case foreignKeyViolated:
			if strings.Contains(pqErr.Constraint, "story") {
				return quiz.ErrStoryNotFound
			}
			return user.ErrNotFound
		case invalidTextRepr:
			return quiz.ErrStoryNotFound
		}
	}
	return errors.Wrap(err, "inserting completion")
}
