package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/learnlingo/learnlingo-api/internal/models"
	"github.com/learnlingo/learnlingo-api/internal/repository"
	"github.com/learnlingo/learnlingo-api/pkg/config"
	"github.com/learnlingo/learnlingo-api/pkg/database"
	"github.com/learnlingo/learnlingo-api/pkg/logger"

	"go.uber.org/zap"
)

// Loads a teachers JSON dump (either an id-keyed object or a plain array)
// and upserts every record into the directory table.
func main() {
	var file string
	flag.StringVar(&file, "file", "teachers.json", "path to the teachers JSON dump")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	raw, err := os.ReadFile(file)
	if err != nil {
		logr.Sugar().Fatalw("failed to read dump", "file", file, "error", err)
	}

	teachers := models.NormalizeTeachers(raw)
	if len(teachers) == 0 {
		logr.Sugar().Fatalw("dump contains no usable teacher records", "file", file)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	repo := repository.NewTeacherRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	imported := 0
	for i := range teachers {
		if err := repo.Upsert(ctx, &teachers[i]); err != nil {
			logr.Warn("skipping teacher", zap.String("id", teachers[i].ID), zap.Error(err))
			continue
		}
		imported++
	}

	logr.Sugar().Infow("seed finished", "file", file, "total", len(teachers), "imported", imported)
}
