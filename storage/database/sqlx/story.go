package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/story"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

const storyColumns = "id, author_id, title, slug, summary, kind, blob_key, file_url, size, created_at"

type storyRow struct {
	ID        string      `db:"id"`
	AuthorID  string      `db:"author_id"`
	Title     string      `db:"title"`
	Slug      string      `db:"slug"`
	Summary   null.String `db:"summary"`
	Kind      string      `db:"kind"`
	BlobKey   string      `db:"blob_key"`
	FileURL   string      `db:"file_url"`
	Size      int64       `db:"size"`
	CreatedAt time.Time   `db:"created_at"`
}

func (row storyRow) story() story.Story {
	return story.Story{
		ID:        row.ID,
		AuthorID:  row.AuthorID,
		Title:     row.Title,
		Slug:      row.Slug,
		Summary:   row.Summary.String,
		Kind:      row.Kind,
		BlobKey:   row.BlobKey,
		FileURL:   row.FileURL,
		Size:      row.Size,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

type storyRepository struct {
	db *sqlx.DB
}

var _ story.Repository = (*storyRepository)(nil) // interface compliance check

func NewStoryRepository(db *sqlx.DB) story.Repository {
	return &storyRepository{db: db}
}

func (repo *storyRepository) Create(ctx context.Context, s story.Story) (story.Story, error) {
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE users SET stories_uploaded_count = stories_uploaded_count + 1 WHERE id = $1", s.AuthorID)
		if err != nil {
			return errors.Wrap(err, "counting story")
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return user.ErrNotFound
		}

		row := storyRow{
			ID:        s.ID,
			AuthorID:  s.AuthorID,
			Title:     s.Title,
			Slug:      s.Slug,
			Summary:   null.NewString(s.Summary, s.Summary != ""),
			Kind:      s.Kind,
			BlobKey:   s.BlobKey,
			FileURL:   s.FileURL,
			Size:      s.Size,
			CreatedAt: s.CreatedAt.UTC(),
		}
		q := "INSERT INTO stories (" + storyColumns + `) VALUES
			(:id, :author_id, :title, :slug, :summary, :kind, :blob_key, :file_url, :size, :created_at)`
		_, err = tx.NamedExecContext(ctx, q, row)
		return errors.Wrap(err, "inserting story")
	})
	if err != nil {
		return story.Story{}, err
	}
	return s, nil
}

func (repo *storyRepository) GetByID(ctx context.Context, id string) (story.Story, error) {
	var row storyRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+storyColumns+" FROM stories WHERE id::text = $1", id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return story.Story{}, story.ErrNotFound
		}
		return story.Story{}, errors.Wrap(err, "getting story")
	}
	return row.story(), nil
}

func (repo *storyRepository) ListByAuthor(ctx context.Context, authorID string) ([]story.Story, error) {
	var rows []storyRow
	q := "SELECT " + storyColumns + " FROM stories WHERE author_id::text = $1 ORDER BY created_at DESC"
	if err := repo.db.SelectContext(ctx, &rows, q, authorID); err != nil {
		return nil, errors.Wrap(err, "listing stories")
	}
	stories := make([]story.Story, 0, len(rows))
	for _, row := range rows {
		stories = append(stories, row.story())
	}
	return stories, nil
}

// withTx runs fn in a transaction, committed only when fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
