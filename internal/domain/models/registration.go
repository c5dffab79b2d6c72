// internal/domain/models/registration.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Registration is one member's record in the Alliance collection, one
// document per (discord_id, discord_server_id) pair.
//
// RegisteredAt is stored as an RFC 3339 UTC string and is set exactly once,
// when the document is first created. Departures never delete the document;
// it is historical.
type Registration struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DiscordID       string             `bson:"discord_id" json:"discord_id"`
	DiscordServerID string             `bson:"discord_server_id" json:"discord_server_id"`
	PlayerName      string             `bson:"player_name" json:"player_name"`
	ServerName      string             `bson:"server_name" json:"server_name"`
	ServerNickname  string             `bson:"server_nickname" json:"server_nickname"`
	RegisteredAt    string             `bson:"registered_at" json:"registered_at"`
}
