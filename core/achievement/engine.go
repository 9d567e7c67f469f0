package achievement

import (
	"context"
	"fmt"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
)

// Notifier is told about every advancement once it has been persisted.
type Notifier interface {
	Celebrate(ctx context.Context, res AdvanceResult)
}

// Engine evaluates the progression tracks of users and persists their advancements.
type Engine struct {
	store    Store
	logger   core.Logger
	tracks   []Track
	notifier Notifier
}

// NewEngine checks the tracks and returns an Engine. It fails with a *core.ConfigError
// when a dependency is missing or a track is unusable.
func NewEngine(store Store, logger core.Logger, tracks ...Track) (*Engine, error) {
	if err := vala.BeginValidation().Validate(
		core.IsNotNil(store, "store"),
		core.IsNotNil(logger, "logger"),
		vala.GreaterThan(len(tracks), 0, "tracks"),
	).Check(); err != nil {
		return nil, core.NewConfigError("achievement.Engine", "%v", err)
	}

	seen := make(map[TrackName]bool, len(tracks))
	for _, tr := range tracks {
		switch {
		case tr.Name == "":
			return nil, core.NewConfigError("achievement.Engine", "track without a name")
		case seen[tr.Name]:
			return nil, core.NewConfigError("achievement.Engine", "duplicate track %q", tr.Name)
		case tr.Table.Len() == 0:
			return nil, core.NewConfigError("achievement.Engine", "track %q has an empty tier table", tr.Name)
		case tr.Counter == nil || tr.Stored == nil:
			return nil, core.NewConfigError("achievement.Engine", "track %q has no counter or stored accessor", tr.Name)
		}
		seen[tr.Name] = true
	}

	return &Engine{
		store:  store,
		logger: logger,
		tracks: append([]Track(nil), tracks...),
	}, nil
}

// WithNotifier sets the notifier called after each persisted advancement.
func (e *Engine) WithNotifier(n Notifier) *Engine {
	e.notifier = n
	return e
}

func (e *Engine) Tracks() []Track {
	return append([]Track(nil), e.tracks...)
}

func (e *Engine) track(name TrackName) (Track, bool) {
	for _, tr := range e.tracks {
		if tr.Name == name {
			return tr, true
		}
	}
	return Track{}, false
}

// Check reads the progression of userID once and advances every track whose counter earned
// a higher tier. It returns the advancements that were persisted by this call; advancements
// lost to a concurrent check are silently dropped.
// Storage failures are returned as *RetryableError, along with the advancements that were
// persisted before the failure.
func (e *Engine) Check(ctx context.Context, userID string) ([]AdvanceResult, error) {
	prog, err := e.read(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		advanced []AdvanceResult
		firstErr error
	)
	for _, tr := range e.tracks {
		res, err := e.advance(ctx, prog, tr)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if res.Advanced {
			advanced = append(advanced, res)
		}
	}
	return advanced, firstErr
}

// CheckTrack is like Check but evaluates a single track.
func (e *Engine) CheckTrack(ctx context.Context, userID string, name TrackName) (AdvanceResult, error) {
	tr, ok := e.track(name)
	if !ok {
		return AdvanceResult{}, errors.Errorf("achievement: unknown track %q", name)
	}
	prog, err := e.read(ctx, userID)
	if err != nil {
		return AdvanceResult{}, err
	}
	return e.advance(ctx, prog, tr)
}

func (e *Engine) read(ctx context.Context, userID string) (Progression, error) {
	prog, err := e.store.ReadProgression(ctx, userID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Progression{}, ErrNotFound
		}
		return Progression{}, retryable(err, "read progression")
	}
	return prog, nil
}

func (e *Engine) advance(ctx context.Context, prog Progression, tr Track) (AdvanceResult, error) {
	res := CheckAndAdvance(prog.UserID, tr.Name, tr.Counter(prog), tr.Stored(prog), tr.Table)
	if !res.Advanced {
		return res, nil
	}

	unchanged := AdvanceResult{UserID: prog.UserID, Track: tr.Name, PreviousIndex: res.PreviousIndex, TierIndex: res.PreviousIndex}
	err := e.store.WriteTierIndex(ctx, prog.UserID, tr.Name, res.PreviousIndex, res.TierIndex)
	switch cause := errors.Cause(err); {
	case cause == ErrConflict:
		e.logger.Debug(fmt.Sprintf("achievement: %s advancement of %s lost to a concurrent check", tr.Name, prog.UserID))
		return unchanged, nil
	case cause == ErrNotFound:
		return unchanged, ErrNotFound
	case err != nil:
		e.logger.Error(fmt.Sprintf("achievement: writing %s tier of %s: %v", tr.Name, prog.UserID, err), err)
		return unchanged, retryable(err, fmt.Sprintf("write %s tier", tr.Name))
	}

	e.logger.Info(fmt.Sprintf("achievement: %s reached %s %s (#%d)", prog.UserID, tr.Name, res.Tier.Name, res.TierIndex))
	if e.notifier != nil {
		e.notifier.Celebrate(ctx, res)
	}
	return res, nil
}

// TrackSummary describes where a user stands on one track.
type TrackSummary struct {
	Track     TrackName `json:"track"`
	Counter   int64     `json:"counter"`
	TierIndex int       `json:"tier_index"`
	Tier      *Tier     `json:"tier"`
	Next      *Tier     `json:"next,omitempty"`
	Remaining int64     `json:"remaining,omitempty"` // counter units left to reach Next
}

// Summary reports the persisted tiers of userID. It does not advance anything.
func (e *Engine) Summary(ctx context.Context, userID string) ([]TrackSummary, error) {
	prog, err := e.read(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]TrackSummary, 0, len(e.tracks))
	for _, tr := range e.tracks {
		idx := tr.Stored(prog)
		s := TrackSummary{
			Track:     tr.Name,
			Counter:   tr.Counter(prog),
			TierIndex: idx,
			Tier:      tr.Table.Tier(idx),
			Next:      tr.Table.Next(idx),
		}
		if s.Next != nil && s.Next.Threshold > s.Counter {
			s.Remaining = s.Next.Threshold - s.Counter
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
