package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
)

var (
	// errors
	ErrStoryNotFound = errors.New("story not found")
	ErrInvalidScore  = errors.New("score must be between 0 and 100")
)

// Completion records that a user finished the quiz of a story.
type Completion struct {
	UserID      string    `json:"user_id"`
	StoryID     string    `json:"story_id"`
	Score       int       `json:"score"`
	Points      int64     `json:"points"`       // ninja gold awarded
	CompletedAt time.Time `json:"completed_at"` // UTC
}

// Result is the outcome of Service.Complete.
type Result struct {
	Completion   Completion                  `json:"completion"`
	FirstTime    bool                        `json:"first_time"`
	Advancements []achievement.AdvanceResult `json:"advancements"`
}

type (
	Repository interface {
		// Complete inserts c unless userID already completed the story. On a first completion
		// it adds c.Points to the reward points of the user in the same transaction.
		// It returns the stored completion and whether it was the first one.
		Complete(ctx context.Context, c Completion) (Completion, bool, error)
		ListByUser(ctx context.Context, userID string) ([]Completion, error)
	}

	// Checker runs the achievement checks of a user; satisfied by *achievement.Engine.
	Checker interface {
		Check(ctx context.Context, userID string) ([]achievement.AdvanceResult, error)
	}

	Service struct {
		repo         Repository
		checker      Checker
		logger       core.Logger
		rewardPoints int64
	}
)

func NewService(repo Repository, checker Checker, conf *core.Config, logger core.Logger) (*Service, error) {
	if err := vala.BeginValidation().Validate(
		core.IsNotNil(repo, "repo"),
		core.IsNotNil(checker, "checker"),
		core.IsNotNil(logger, "logger"),
	).Check(); err != nil {
		return nil, core.NewConfigError("quiz.Service", "%v", err)
	}
	if conf == nil {
		return nil, core.NewConfigError("quiz.Service", "nil config")
	}
	if conf.Quiz.RewardPoints < 0 {
		return nil, core.NewConfigError("quiz.Service", "negative reward points: %d", conf.Quiz.RewardPoints)
	}
	return &Service{repo: repo, checker: checker, logger: logger, rewardPoints: conf.Quiz.RewardPoints}, nil
}

// Complete records the quiz completion of storyID by userID. Only the first completion of a story
// earns ninja gold; repeated completions return the original one.
func (svc *Service) Complete(ctx context.Context, userID, storyID string, score int) (Result, error) {
	if score < 0 || score > 100 {
		return Result{}, core.NewValidationError(nil, core.FieldError{Field: "score", Error: ErrInvalidScore.Error()})
	}

	c, first, err := svc.repo.Complete(ctx, Completion{
		UserID:      userID,
		StoryID:     storyID,
		Score:       score,
		Points:      svc.rewardPoints,
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Cause(err) == ErrStoryNotFound {
			return Result{}, ErrStoryNotFound
		}
		return Result{}, errors.Wrap(err, "completing quiz")
	}

	res := Result{Completion: c, FirstTime: first}
	if res.Advancements, err = svc.checker.Check(ctx, userID); err != nil {
		svc.logger.Warn(fmt.Sprintf("quiz.Complete: checking achievements of %s: %v", userID, err), err)
	}
	return res, nil
}

func (svc *Service) ListByUser(ctx context.Context, userID string) ([]Completion, error) {
	return svc.repo.ListByUser(ctx, userID)
}
