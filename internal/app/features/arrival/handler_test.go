package arrival_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/gptfleet/hellbot/internal/app/features/arrival"
	"github.com/gptfleet/hellbot/internal/app/system/gateway"
	"github.com/gptfleet/hellbot/internal/domain/models"
	"github.com/gptfleet/hellbot/internal/testutil"
)

type fakeRegistrar struct {
	upserts []models.Registration
	err     error
}

func (f *fakeRegistrar) Upsert(ctx context.Context, reg models.Registration) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, reg)
	return nil
}

func newMember() *gateway.Member {
	return &gateway.Member{
		ID:        "user-1",
		Username:  "diver_one",
		Nick:      "Diver One",
		GuildID:   "guild-1",
		GuildName: "GPT Fleet",
	}
}

func newHandler(gw *testutil.FakeGateway, reg *fakeRegistrar) *arrival.Handler {
	return arrival.NewHandler(gw, reg, "chan-welcome", "role-member", "chan-sos", zap.NewNop())
}

func TestHandle_WelcomesAssignsAndRegisters(t *testing.T) {
	gw := &testutil.FakeGateway{
		Channels: map[string]*gateway.Channel{
			"chan-welcome": {ID: "chan-welcome", Name: "welcome"},
		},
		Roles: map[string]map[string]*gateway.Role{
			"guild-1": {"role-member": {ID: "role-member", Name: "Member"}},
		},
	}
	reg := &fakeRegistrar{}
	m := newMember()

	if err := newHandler(gw, reg).Handle(context.Background(), m); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	sent := gw.SentTo("chan-welcome")
	if len(sent) != 1 {
		t.Fatalf("expected 1 welcome message, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Content, m.Mention()) {
		t.Errorf("welcome message should mention the member: %q", sent[0].Content)
	}
	if !strings.Contains(sent[0].Content, "<#chan-sos>") {
		t.Errorf("welcome message should reference the LFG channel: %q", sent[0].Content)
	}

	if len(gw.Grants) != 1 {
		t.Fatalf("expected 1 role grant, got %d", len(gw.Grants))
	}
	if gw.Grants[0].RoleID != "role-member" || gw.Grants[0].UserID != "user-1" {
		t.Errorf("unexpected grant: %+v", gw.Grants[0])
	}

	if len(reg.upserts) != 1 {
		t.Fatalf("expected 1 registration upsert, got %d", len(reg.upserts))
	}
	got := reg.upserts[0]
	if got.DiscordID != "user-1" || got.DiscordServerID != "guild-1" {
		t.Errorf("registration keyed wrong: %+v", got)
	}
	if got.PlayerName != "diver_one" || got.ServerNickname != "Diver One" {
		t.Errorf("unexpected registration names: %+v", got)
	}
	if got.RegisteredAt == "" {
		t.Error("expected registered_at to be set")
	}
}

func TestHandle_MissingWelcomeChannel_AbortsEverything(t *testing.T) {
	gw := &testutil.FakeGateway{
		Roles: map[string]map[string]*gateway.Role{
			"guild-1": {"role-member": {ID: "role-member", Name: "Member"}},
		},
	}
	reg := &fakeRegistrar{}

	if err := newHandler(gw, reg).Handle(context.Background(), newMember()); err != nil {
		t.Fatalf("resolution miss should not be an error: %v", err)
	}
	if len(gw.Sent) != 0 {
		t.Errorf("expected no messages, got %d", len(gw.Sent))
	}
	if len(gw.Grants) != 0 {
		t.Errorf("expected no role grants, got %d", len(gw.Grants))
	}
	if len(reg.upserts) != 0 {
		t.Errorf("expected no registration writes, got %d", len(reg.upserts))
	}
}

func TestHandle_MissingRole_SkipsRegistration(t *testing.T) {
	gw := &testutil.FakeGateway{
		Channels: map[string]*gateway.Channel{
			"chan-welcome": {ID: "chan-welcome", Name: "welcome"},
		},
	}
	reg := &fakeRegistrar{}

	if err := newHandler(gw, reg).Handle(context.Background(), newMember()); err != nil {
		t.Fatalf("resolution miss should not be an error: %v", err)
	}
	if len(gw.SentTo("chan-welcome")) != 1 {
		t.Error("welcome message should still be sent before the role check")
	}
	if len(gw.Grants) != 0 {
		t.Errorf("expected no role grants, got %d", len(gw.Grants))
	}
	if len(reg.upserts) != 0 {
		t.Error("registration must not be written when the role is unresolvable")
	}
}

func TestHandle_RegistrationFailure_Propagates(t *testing.T) {
	gw := &testutil.FakeGateway{
		Channels: map[string]*gateway.Channel{
			"chan-welcome": {ID: "chan-welcome", Name: "welcome"},
		},
		Roles: map[string]map[string]*gateway.Role{
			"guild-1": {"role-member": {ID: "role-member", Name: "Member"}},
		},
	}
	reg := &fakeRegistrar{err: errors.New("mongo down")}

	if err := newHandler(gw, reg).Handle(context.Background(), newMember()); err == nil {
		t.Fatal("expected store failure to propagate to the dispatch boundary")
	}
}
