// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/bwmarrin/discordgo"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds backend dependencies for the app.
//
// Both clients are created once during ConnectDB, before the event loop can
// run, so no handler ever initializes a shared connection lazily.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Discord is constructed (but not opened) in ConnectDB; Startup
	// registers event handlers and opens the gateway connection.
	Discord *discordgo.Session
}
