// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gptfleet/hellbot/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateRegistration inserts an Alliance registration for the given
// member-guild pair and returns it.
func (f *Fixtures) CreateRegistration(ctx context.Context, discordID, serverID, nickname string) models.Registration {
	f.t.Helper()

	reg := models.Registration{
		DiscordID:       discordID,
		DiscordServerID: serverID,
		PlayerName:      nickname,
		ServerName:      "Test Guild",
		ServerNickname:  nickname,
		RegisteredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := f.db.Collection("Alliance").InsertOne(ctx, reg); err != nil {
		f.t.Fatalf("failed to create test registration: %v", err)
	}
	return reg
}

// CreateUserStats inserts a User_Stats record for the given user.
func (f *Fixtures) CreateUserStats(ctx context.Context, userID string, completedMissions int) models.UserStats {
	f.t.Helper()

	st := models.UserStats{
		UserID:            userID,
		CompletedMissions: completedMissions,
	}
	if _, err := f.db.Collection("User_Stats").InsertOne(ctx, st); err != nil {
		f.t.Fatalf("failed to create test user stats: %v", err)
	}
	return st
}
