package main

import (
	"log"
	"os"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
	logsvc "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/services/logger"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/storage/database"
	boiledrepos "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/storage/database/sqlboiler"
	sqlxrepos "github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(err.Error(), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(err.Error(), err)
	}

	tracks, err := achievement.DefaultTracks(conf)
	if err != nil {
		_ = db.Close()
		logger.Fatal(err.Error(), err)
	}
	engine, err := achievement.NewEngine(boiledrepos.NewProgressionStore(db), logger, tracks...)
	if err != nil {
		_ = db.Close()
		logger.Fatal(err.Error(), err)
	}

	// start CLI
	cli := commandLine{
		db:      db.DB,
		usrRepo: sqlxrepos.NewUserRepository(db),
		engine:  engine,
		out:     os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("admin: "+err.Error(), err)
		}
		os.Exit(1)
	}
}
