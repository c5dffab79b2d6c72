// internal/app/store/stats/store.go

// Package stats reads the User_Stats collection. The collection is written
// by an external pipeline; this service never mutates it.
package stats

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gptfleet/hellbot/internal/domain/models"
)

// Collection is the User_Stats collection name.
const Collection = "User_Stats"

// Store wraps the User_Stats collection.
type Store struct {
	c *mongo.Collection
}

// New creates a Store backed by the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// CompletedMissions looks up a user's completed-mission count. found
// distinguishes "no record" from "record with zero missions": a found record
// with a zero count is still a found record.
func (s *Store) CompletedMissions(ctx context.Context, userID string) (count int, found bool, err error) {
	var st models.UserStats
	err = s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&st)
	if err == mongo.ErrNoDocuments {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return st.CompletedMissions, true, nil
}
