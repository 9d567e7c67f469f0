package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/quiz"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/story"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
	appfs "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/fs"
	blobsvc "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/services/blob"
	emailsvc "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/services/email"
	logsvc "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/services/logger"
	inmemdb "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/storage/database/inmem"
)

// App holds every service wired on top of an in-memory database.
type App struct {
	Conf       *core.Config
	Logger     core.Logger
	DB         *inmemdb.DB
	Blobs      *blobsvc.MemoryStore
	Validate   *validator.Validate
	Translator ut.Translator
	UserRepo   user.Repository
	UserSvc    user.Service
	Engine     *achievement.Engine
	StorySvc   *story.Service
	QuizSvc    *quiz.Service
}

// NewApp wires a fresh App. Celebration emails are sent through the console mock.
func NewApp(t *testing.T) *App {
	t.Helper()

	conf := core.NewTestConfig()
	logger := logsvc.NopLogger{}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	core.ParseEmailTemplates(conf, logger, appfs.FS)
	user.LoadCommonPasswords(logger, appfs.FS)
	emailsvc.ResetSentMessages()

	db := inmemdb.Open()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	usrRepo := inmemdb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, mailSvc, conf, logger)

	tracks, err := achievement.DefaultTracks(conf)
	if err != nil {
		t.Fatalf("DefaultTracks() failed: %v", err)
	}
	engine, err := achievement.NewEngine(inmemdb.NewProgressionStore(db), logger, tracks...)
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}
	engine.WithNotifier(achievement.NewMailNotifier(mailSvc, usrSvc, conf, logger))

	blobs := blobsvc.NewMemoryStore("https://cdn.test")
	storySvc, err := story.NewService(inmemdb.NewStoryRepository(db), blobs, engine, logger)
	if err != nil {
		t.Fatalf("story.NewService() failed: %v", err)
	}
	quizSvc, err := quiz.NewService(inmemdb.NewQuizRepository(db), engine, conf, logger)
	if err != nil {
		t.Fatalf("quiz.NewService() failed: %v", err)
	}

	return &App{
		Conf:       conf,
		Logger:     logger,
		DB:         db,
		Blobs:      blobs,
		Validate:   validate,
		Translator: translator,
		UserRepo:   usrRepo,
		UserSvc:    usrSvc,
		Engine:     engine,
		StorySvc:   storySvc,
		QuizSvc:    quizSvc,
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if roles == nil {
		roles = []string{}
	}
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.Create(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}
