package testutil

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kidspro/kidspro/core"
	"github.com/kidspro/kidspro/core/game"
	"github.com/kidspro/kidspro/services/logger"
	"github.com/kidspro/kidspro/storage/database"
)

// OpenDB opens a migrated sqlite database living in the test's temp dir.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conf := &core.Config{
		Env:      "TEST",
		TestMode: true,
		Database: core.DatabaseConfig{
			Engine: "sqlite",
			Path:   filepath.Join(t.TempDir(), "kidspro_test.db"),
		},
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db, conf); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

// CreateLevel stores a level as is, without layout validation nor reindexing.
func CreateLevel(t *testing.T, repo game.Repository, modeID, index int, details ...game.LevelDetail) game.Level {
	t.Helper()
	lvl, err := repo.CreateLevel(context.Background(), game.Level{
		ModeID:        modeID,
		LevelIndex:    index,
		CoinReward:    10,
		GemReward:     1,
		StartPosition: 1,
		Details:       details,
	})
	if err != nil {
		t.Fatalf("CreateLevel() failed: %v", err)
	}
	return lvl
}

func CreateProfile(t *testing.T, repo game.Repository, studentID int, name string, coin, gem int) game.Profile {
	t.Helper()
	now := time.Now().UTC()
	prof, err := repo.CreateProfile(context.Background(), game.Profile{
		StudentID:   studentID,
		DisplayName: name,
		Coin:        coin,
		Gem:         gem,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	return prof
}

// Corridor returns the details of the smallest valid basic level: start 1, road 2, target 3.
func Corridor() []game.LevelDetail {
	return []game.LevelDetail{
		{Position: 2, TypeID: game.PositionRoad},
		{Position: 3, TypeID: game.PositionTarget},
	}
}

// NewLogger returns a logger that discards everything and never reports.
func NewLogger() *logsvc.RollbarLogger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)
	return logger
}
