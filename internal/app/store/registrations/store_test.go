package registrations_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/gptfleet/hellbot/internal/app/store/registrations"
	"github.com/gptfleet/hellbot/internal/domain/models"
	"github.com/gptfleet/hellbot/internal/testutil"
)

func TestUpsert_CreatesRegistration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reg := models.Registration{
		DiscordID:       "user-1",
		DiscordServerID: "guild-1",
		PlayerName:      "  diver_one  ",
		ServerName:      " GPT Fleet ",
		ServerNickname:  " Diver One ",
	}
	if err := store.Upsert(ctx, reg); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Find(ctx, "user-1", "guild-1")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a registration document")
	}
	if got.PlayerName != "diver_one" || got.ServerNickname != "Diver One" || got.ServerName != "GPT Fleet" {
		t.Errorf("expected trimmed fields, got %+v", got)
	}
	if got.RegisteredAt == "" {
		t.Fatal("expected registered_at to be set")
	}
	if _, err := time.Parse(time.RFC3339, got.RegisteredAt); err != nil {
		t.Errorf("registered_at not RFC3339: %q", got.RegisteredAt)
	}
}

func TestUpsert_RejoinDoesNotDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := models.Registration{
		DiscordID:       "user-1",
		DiscordServerID: "guild-1",
		PlayerName:      "diver_one",
		ServerNickname:  "Original Name",
		RegisteredAt:    "2024-01-01T00:00:00Z",
	}
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}

	second := first
	second.ServerNickname = "Returning Name"
	second.RegisteredAt = "2026-06-01T00:00:00Z"
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	n, err := db.Collection(registrations.Collection).CountDocuments(ctx, bson.M{
		"discord_id":        "user-1",
		"discord_server_id": "guild-1",
	})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 document for the pair, got %d", n)
	}

	got, err := store.Find(ctx, "user-1", "guild-1")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got.ServerNickname != "Returning Name" {
		t.Errorf("nickname should refresh on re-join, got %q", got.ServerNickname)
	}
	if got.RegisteredAt != "2024-01-01T00:00:00Z" {
		t.Errorf("registered_at must be set once, got %q", got.RegisteredAt)
	}
}

func TestUpsert_SamePairDifferentGuilds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, guild := range []string{"guild-1", "guild-2"} {
		err := store.Upsert(ctx, models.Registration{
			DiscordID:       "user-1",
			DiscordServerID: guild,
			PlayerName:      "diver_one",
		})
		if err != nil {
			t.Fatalf("Upsert for %s failed: %v", guild, err)
		}
	}

	n, err := db.Collection(registrations.Collection).CountDocuments(ctx, bson.M{
		"discord_id": "user-1",
	})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected one registration per guild, got %d", n)
	}
}

func TestUpdateNickname_Matched(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrations.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateRegistration(ctx, "user-1", "guild-1", "Old Name")

	matched, err := store.UpdateNickname(ctx, "user-1", "guild-1", "  New Name  ")
	if err != nil {
		t.Fatalf("UpdateNickname failed: %v", err)
	}
	if !matched {
		t.Fatal("expected a matched document")
	}

	got, err := store.Find(ctx, "user-1", "guild-1")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got.ServerNickname != "New Name" {
		t.Errorf("nickname: got %q, want trimmed %q", got.ServerNickname, "New Name")
	}
}

func TestUpdateNickname_NoMatch_NoCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	matched, err := store.UpdateNickname(ctx, "ghost", "guild-1", "Name")
	if err != nil {
		t.Fatalf("UpdateNickname failed: %v", err)
	}
	if matched {
		t.Error("expected no match")
	}

	n, err := db.Collection(registrations.Collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("update-only path must never create documents, found %d", n)
	}
}
