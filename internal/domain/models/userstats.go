// internal/domain/models/userstats.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserStats is a per-user record in the User_Stats collection. It is written
// by an external pipeline; this service only reads it to decide
// promotion-announcement content.
type UserStats struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"user_id" json:"user_id"`
	ServerNickname    string             `bson:"server_nickname,omitempty" json:"server_nickname,omitempty"`
	CompletedMissions int                `bson:"Completed_Missions" json:"completed_missions"`
}
