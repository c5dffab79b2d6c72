package promotion_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/gptfleet/hellbot/internal/app/features/promotion"
	"github.com/gptfleet/hellbot/internal/app/system/gateway"
	"github.com/gptfleet/hellbot/internal/testutil"
)

type fakeStats struct {
	counts map[string]int
	err    error
}

func (f *fakeStats) CompletedMissions(ctx context.Context, userID string) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	count, ok := f.counts[userID]
	return count, ok, nil
}

func memberWithRoles(roles ...string) *gateway.Member {
	return &gateway.Member{
		ID:       "user-1",
		Username: "diver_one",
		Nick:     "Diver One",
		GuildID:  "guild-1",
		RoleIDs:  roles,
	}
}

func newGateway() *testutil.FakeGateway {
	return &testutil.FakeGateway{
		Channels: map[string]*gateway.Channel{
			"chan-cadet":   {ID: "chan-cadet", Name: "cadet-chat"},
			"chan-welcome": {ID: "chan-welcome", Name: "welcome"},
		},
	}
}

func newHandler(gw *testutil.FakeGateway, stats *fakeStats) *promotion.Handler {
	return promotion.NewHandler(gw, stats,
		"role-cadet", "chan-cadet", "role-class-a", "chan-welcome", zap.NewNop())
}

func TestHandle_CadetRoleAdded_SendsAcademyWelcome(t *testing.T) {
	gw := newGateway()
	h := newHandler(gw, &fakeStats{})

	before := memberWithRoles("role-x")
	after := memberWithRoles("role-x", "role-cadet")
	if err := h.Handle(context.Background(), before, after); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	sent := gw.SentTo("chan-cadet")
	if len(sent) != 1 {
		t.Fatalf("expected 1 academy welcome, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Content, after.Mention()) {
		t.Errorf("academy welcome should mention the member: %q", sent[0].Content)
	}
}

func TestHandle_ClassARole_ZeroMissions_StillAnnounces(t *testing.T) {
	gw := newGateway()
	h := newHandler(gw, &fakeStats{counts: map[string]int{"user-1": 0}})

	before := memberWithRoles()
	after := memberWithRoles("role-class-a")
	if err := h.Handle(context.Background(), before, after); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	sent := gw.SentTo("chan-welcome")
	if len(sent) != 1 {
		t.Fatalf("a found record with zero missions must still announce, got %d messages", len(sent))
	}
	if !strings.Contains(sent[0].Content, "0 missions") {
		t.Errorf("announcement should embed the mission count: %q", sent[0].Content)
	}
}

func TestHandle_ClassARole_NoStatsRecord_Silent(t *testing.T) {
	gw := newGateway()
	h := newHandler(gw, &fakeStats{})

	before := memberWithRoles()
	after := memberWithRoles("role-class-a")
	if err := h.Handle(context.Background(), before, after); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(gw.Sent) != 0 {
		t.Errorf("expected silence without a statistics record, got %d messages", len(gw.Sent))
	}
}

func TestHandle_RemovedOrUnchangedRoles_NoReaction(t *testing.T) {
	gw := newGateway()
	h := newHandler(gw, &fakeStats{counts: map[string]int{"user-1": 5}})

	// role-cadet removed, role-class-a held on both sides: no additions.
	before := memberWithRoles("role-cadet", "role-class-a")
	after := memberWithRoles("role-class-a")
	if err := h.Handle(context.Background(), before, after); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(gw.Sent) != 0 {
		t.Errorf("expected no reactions, got %d messages", len(gw.Sent))
	}
}

func TestHandle_IdenticalRoleSets_NoOp(t *testing.T) {
	gw := newGateway()
	h := newHandler(gw, &fakeStats{})

	before := memberWithRoles("role-cadet")
	after := memberWithRoles("role-cadet")
	if err := h.Handle(context.Background(), before, after); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(gw.Sent) != 0 {
		t.Errorf("expected no messages, got %d", len(gw.Sent))
	}
}

func TestHandle_OneRoleFailing_OthersStillProcessed(t *testing.T) {
	gw := newGateway()
	// Stats lookups fail, so the class-A reaction errors; the cadet
	// reaction must still fire.
	h := newHandler(gw, &fakeStats{err: errors.New("mongo down")})

	before := memberWithRoles()
	after := memberWithRoles("role-class-a", "role-cadet")
	if err := h.Handle(context.Background(), before, after); err != nil {
		t.Fatalf("per-role failures must not escape the handler: %v", err)
	}
	if len(gw.SentTo("chan-cadet")) != 1 {
		t.Error("cadet welcome should be sent despite the class-A failure")
	}
}

func TestHandle_NoPriorState_NoReaction(t *testing.T) {
	gw := newGateway()
	h := newHandler(gw, &fakeStats{counts: map[string]int{"user-1": 3}})

	if err := h.Handle(context.Background(), nil, memberWithRoles("role-cadet")); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(gw.Sent) != 0 {
		t.Errorf("expected no messages without prior state, got %d", len(gw.Sent))
	}
}
