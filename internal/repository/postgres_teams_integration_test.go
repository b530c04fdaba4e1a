// +build integration

package repository

import (
	"context"
	"database/sql"
	"testing"

	"eldercare-data/internal/config"
	"eldercare-data/internal/database"
	"eldercare-data/internal/domain"
)

// setupTestDB 设置测试数据库（不可用时跳过）
func setupTestDB(t *testing.T) *sql.DB {
	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		t.Skipf("Skipping integration test: database not available: %v", err)
	}
	return db
}

func cleanupTeam(db *sql.DB, name string) {
	db.Exec(`DELETE FROM elderly_care.teams WHERE team_name = $1`, name)
}

func TestPostgresTeamsRepo_CreateIsUpsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPostgresTeamsRepo()
	ctx := context.Background()
	audit := domain.AuditContext{ActorID: 1, UserIP: "127.0.0.1"}
	name := "it-team-upsert"
	cleanupTeam(db, name)
	defer cleanupTeam(db, name)

	first, err := repo.CreateTeam(ctx, db, name, "default", audit)
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	// 同名重复创建返回同一行，不报唯一约束错误
	second, err := repo.CreateTeam(ctx, db, name, "default", audit)
	if err != nil {
		t.Fatalf("CreateTeam (repeat) failed: %v", err)
	}
	if first.TeamID != second.TeamID {
		t.Fatalf("expected same team id, got %d and %d", first.TeamID, second.TeamID)
	}

	got, err := repo.GetTeamByName(ctx, db, name)
	if err != nil {
		t.Fatalf("GetTeamByName failed: %v", err)
	}
	if got.TeamSite != "default" {
		t.Fatalf("unexpected team_site: %s", got.TeamSite)
	}
}

func TestPostgresTeamsRepo_GetTeamByNameNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPostgresTeamsRepo()
	_, err := repo.GetTeamByName(context.Background(), db, "it-team-does-not-exist")
	if err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
