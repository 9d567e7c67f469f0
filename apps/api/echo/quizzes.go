package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/quiz"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

// QuizService is satisfied by *quiz.Service.
type QuizService interface {
	Complete(ctx context.Context, userID, storyID string, score int) (quiz.Result, error)
	ListByUser(ctx context.Context, userID string) ([]quiz.Completion, error)
}

type quizApi struct {
	svc     QuizService
	userSvc user.Service
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := quizApi{svc: deps.QuizSvc, userSvc: deps.UserSvc}

	qg := g.Group("/quizzes", jwt)
	qg.GET("/mine", api.mine)
	qg.POST("/:storyId/complete", api.complete)
}

type CompleteQuizRequest struct {
	Score int `json:"score"`
}

func (api *quizApi) complete(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	var data CompleteQuizRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompleteQuizRequest")
	}

	res, err := api.svc.Complete(ctx.Request().Context(), usr.ID, ctx.Param("storyId"), data.Score)
	if err != nil {
		return errors.Wrap(err, "completing quiz")
	}

	code := http.StatusOK
	if res.FirstTime {
		code = http.StatusCreated
	}
	if res.Advancements == nil {
		res.Advancements = []achievement.AdvanceResult{}
	}
	return ctx.JSON(code, res)
}

func (api *quizApi) mine(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	completions, err := api.svc.ListByUser(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing quiz completions")
	}
	return ctx.JSON(http.StatusOK, completions)
}
