// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent. We
aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureAlliance(ctx, db); err != nil {
		problems = append(problems, "Alliance: "+err.Error())
	}
	if err := ensureUserStats(ctx, db); err != nil {
		problems = append(problems, "User_Stats: "+err.Error())
	}
	if err := ensureServerListing(ctx, db); err != nil {
		problems = append(problems, "Server_Listing: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Alliance holds one registration per member-guild pair; lookups are by
// member, by guild, and by player name.
func ensureAlliance(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("Alliance"),
		"player_name", "discord_id", "discord_server_id")
}

// User_Stats is written by an external pipeline; this service only reads it,
// but its nickname index is part of the shared schema contract.
func ensureUserStats(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("User_Stats"), "server_nickname")
}

func ensureServerListing(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("Server_Listing"), "discord_server_id")
}

// ensure creates one single-field ascending index per field. CreateMany is
// idempotent for an index that already exists with the same keys and
// options, so repeated startups are safe.
func ensure(ctx context.Context, c *mongo.Collection, fields ...string) error {
	defs := make([]mongo.IndexModel, 0, len(fields))
	for _, f := range fields {
		defs = append(defs, mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}})
	}
	_, err := c.Indexes().CreateMany(ctx, defs)
	return err
}
