package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/story"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

const storyFileField = "file"

// StoryService is satisfied by *story.Service.
type StoryService interface {
	Create(ctx context.Context, author user.User, ns story.NewStory, file story.File) (story.Story, []achievement.AdvanceResult, error)
	GetByID(ctx context.Context, id string) (story.Story, error)
	ListByAuthor(ctx context.Context, authorID string) ([]story.Story, error)
}

type storyApi struct {
	svc      StoryService
	userSvc  user.Service
	validate *validator.Validate
}

func registerStoryAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := storyApi{svc: deps.StorySvc, userSvc: deps.UserSvc, validate: deps.Validate}

	sg := g.Group("/stories", jwt)
	sg.POST("", api.create, uploaderMiddleware)
	sg.GET("/mine", api.mine)
	sg.GET("/:id", api.retrieve)
}

type CreateStoryResponse struct {
	Story        story.Story                 `json:"story"`
	Advancements []achievement.AdvanceResult `json:"advancements"`
}

func (api *storyApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data story.NewStory
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStory")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	fh, err := ctx.FormFile(storyFileField)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: storyFileField, Error: "a story file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening story file")
	}
	defer func() { _ = f.Close() }()

	s, advanced, err := api.svc.Create(ctx.Request().Context(), usr, data, story.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return errors.Wrap(err, "creating story")
	}
	if advanced == nil {
		advanced = []achievement.AdvanceResult{}
	}
	return ctx.JSON(http.StatusCreated, CreateStoryResponse{Story: s, Advancements: advanced})
}

func (api *storyApi) mine(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	stories, err := api.svc.ListByAuthor(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing stories")
	}
	if stories == nil {
		stories = []story.Story{}
	}
	return ctx.JSON(http.StatusOK, stories)
}

func (api *storyApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding story by ID")
	}
	return ctx.JSON(http.StatusOK, s)
}
