package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/apps/api/echo"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/quiz"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/story"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
	appfs "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/fs"
	blobsvc "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/services/blob"
	emailsvc "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/services/email"
	logsvc "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/services/logger"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/storage/database"
	boiledrepos "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/storage/database/sqlboiler"
	sqlxrepos "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.New("API : ", conf)
	dbLogger := logsvc.New("DB : ", conf)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, conf, logger)

	blobs, err := setUpBlobStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up blob store: %v", err), err)
	}

	tracks, err := achievement.DefaultTracks(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading tier tables: %v", err), err)
	}
	engine, err := achievement.NewEngine(boiledrepos.NewProgressionStore(db), logger, tracks...)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up achievement engine: %v", err), err)
	}
	if conf.Achievement.EmailCelebrations {
		engine.WithNotifier(achievement.NewMailNotifier(mailSvc, usrSvc, conf, logger))
	}

	storySvc, err := story.NewService(sqlxrepos.NewStoryRepository(db), blobs, engine, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up story service: %v", err), err)
	}
	quizSvc, err := quiz.NewService(sqlxrepos.NewQuizRepository(db), engine, conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up quiz service: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger, appfs.FS)
	user.LoadCommonPasswords(logger, appfs.FS)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(conf.Server.Address, shutdown, &echoapi.Deps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		AchievementSvc: engine,
		StorySvc:       storySvc,
		QuizSvc:        quizSvc,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error(fmt.Sprintf("server error: %v", err), err)
		}

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// setUpBlobStore keeps the uploads in memory for local runs without storage credentials.
func setUpBlobStore(conf *core.Config) (story.BlobStore, error) {
	if conf.Debug && conf.Storage.AccessKeyID == "" && conf.Storage.Endpoint == "" {
		return blobsvc.NewMemoryStore(conf.FrontendBaseURL + "/files"), nil
	}
	return blobsvc.NewS3Store(context.Background(), conf)
}
