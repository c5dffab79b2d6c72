// internal/app/features/departure/handler.go

// Package departure posts a goodbye message to the KIA channel when a member
// leaves. The member's registration is kept as a historical record.
package departure

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/gptfleet/hellbot/internal/app/system/gateway"
)

// goodbyePhrases is the fixed pool a departure message suffix is drawn from.
var goodbyePhrases = []string{
	"has left the server. Farewell!",
	"has departed. We'll miss you!",
	"is no longer with us. Safe travels!",
	"has moved on to new adventures.",
	"has left the fleet. Best wishes!",
	"has been honorably discharged. Thank you for your service!",
	"has set sail for new horizons.",
	"has bid us adieu. Until we meet again!",
	"has taken leave. We salute you!",
	"has exited the fleet. Good luck on your journey!",
}

// GoodbyePhrases returns the phrase pool.
func GoodbyePhrases() []string {
	return append([]string(nil), goodbyePhrases...)
}

// Handler processes member-left events.
type Handler struct {
	GW           gateway.Client
	KIAChannelID string
	Log          *zap.Logger
}

// NewHandler creates a departure handler.
func NewHandler(gw gateway.Client, kiaChannelID string, logger *zap.Logger) *Handler {
	return &Handler{GW: gw, KIAChannelID: kiaChannelID, Log: logger}
}

// Handle sends "{display name} {random goodbye phrase}" to the KIA channel.
func (h *Handler) Handle(ctx context.Context, m *gateway.Member) error {
	ch, err := h.GW.Channel(h.KIAChannelID)
	if errors.Is(err, gateway.ErrNotFound) {
		h.Log.Error("KIA channel not found", zap.String("channel_id", h.KIAChannelID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve KIA channel: %w", err)
	}

	msg := m.DisplayName() + " " + goodbyePhrases[rand.IntN(len(goodbyePhrases))]
	if err := h.GW.SendMessage(ch.ID, msg); err != nil {
		return fmt.Errorf("send goodbye message for %s: %w", m.DisplayName(), err)
	}
	h.Log.Info("sent goodbye message", zap.String("member", m.DisplayName()))
	return nil
}
