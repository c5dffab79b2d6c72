// internal/app/store/registrations/store.go

// Package registrations persists member registrations in the Alliance
// collection, one document per (discord_id, discord_server_id) pair.
package registrations

import (
	"context"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gptfleet/hellbot/internal/domain/models"
)

// Collection is the Alliance collection name.
const Collection = "Alliance"

// Store wraps the Alliance collection.
type Store struct {
	c *mongo.Collection
}

// New creates a Store backed by the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Upsert creates or refreshes the registration for one member-guild pair.
// All name fields are trimmed. registered_at is written only when the
// document is first created, so a re-join refreshes names without resetting
// the registration timestamp or creating a duplicate.
func (s *Store) Upsert(ctx context.Context, reg models.Registration) error {
	filter := bson.M{
		"discord_id":        reg.DiscordID,
		"discord_server_id": reg.DiscordServerID,
	}
	update := bson.M{
		"$set": bson.M{
			"player_name":     strings.TrimSpace(reg.PlayerName),
			"server_name":     strings.TrimSpace(reg.ServerName),
			"server_nickname": strings.TrimSpace(reg.ServerNickname),
		},
		"$setOnInsert": bson.M{
			"registered_at": registeredAt(reg.RegisteredAt),
		},
	}

	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if wafflemongo.IsDup(err) {
		// Two near-simultaneous joins for the same pair can race the upsert;
		// the second writer retries as a plain update against the winner.
		_, err = s.c.UpdateOne(ctx, filter, bson.M{"$set": update["$set"]})
	}
	return err
}

// UpdateNickname sets server_nickname (trimmed) on an existing registration.
// It never creates a document: a member with no registration is an expected
// condition the caller reports at warning level. Returns whether a document
// matched.
func (s *Store) UpdateNickname(ctx context.Context, discordID, serverID, nickname string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"discord_id":        discordID,
			"discord_server_id": serverID,
		},
		bson.M{
			"$set": bson.M{"server_nickname": strings.TrimSpace(nickname)},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Find loads the registration for one member-guild pair, or nil if none
// exists.
func (s *Store) Find(ctx context.Context, discordID, serverID string) (*models.Registration, error) {
	var reg models.Registration
	err := s.c.FindOne(ctx, bson.M{
		"discord_id":        discordID,
		"discord_server_id": serverID,
	}).Decode(&reg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func registeredAt(v string) string {
	if v != "" {
		return v
	}
	return time.Now().UTC().Format(time.RFC3339)
}
