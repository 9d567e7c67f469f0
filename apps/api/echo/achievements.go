package echoapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

// AchievementService is satisfied by *achievement.Engine.
type AchievementService interface {
	Check(ctx context.Context, userID string) ([]achievement.AdvanceResult, error)
	Summary(ctx context.Context, userID string) ([]achievement.TrackSummary, error)
}

type achievementApi struct {
	svc     AchievementService
	userSvc user.Service
	logger  core.Logger
}

func registerAchievementAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := achievementApi{svc: deps.AchievementSvc, userSvc: deps.UserSvc, logger: deps.Logger}

	ag := g.Group("/achievements", jwt)
	ag.GET("", api.summary)
	ag.GET("/check", api.check)
}

type CheckResponse struct {
	Advancements []achievement.AdvanceResult `json:"advancements"`
}

func (api *achievementApi) summary(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	summaries, err := api.svc.Summary(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "summarizing achievements")
	}
	return ctx.JSON(http.StatusOK, summaries)
}

// check is polled by the apps after any action that may change a counter.
// When a track fails after another one advanced, the advancement is still returned:
// it will not be reported again and the failed track is retried by the next poll.
func (api *achievementApi) check(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	advanced, err := api.svc.Check(ctx.Request().Context(), usr.ID)
	if err != nil {
		if len(advanced) == 0 {
			return errors.Wrap(err, "checking achievements")
		}
		api.logger.Warn(fmt.Sprintf("achievements.check: partial check of %s: %v", usr.ID, err), err)
	}
	if advanced == nil {
		advanced = []achievement.AdvanceResult{}
	}
	return ctx.JSON(http.StatusOK, CheckResponse{Advancements: advanced})
}
