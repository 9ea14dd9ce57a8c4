package services

import (
	"testing"

	"github.com/shravan777666/auras-backend/models"
)

func TestNotifierSkipsUnusableTargets(t *testing.T) {
	entry := &models.QueueEntry{TokenNumber: "GLO001", QueuePosition: 1}

	t.Run("nil notifier is a no-op", func(t *testing.T) {
		var n *Notifier
		n.TokenIssued(entry, "+15550001111")
		n.NowServing(entry, "+15550001111")
	})

	// A notifier without a client would panic on send; an invalid phone
	// must bail out before that point.
	t.Run("invalid phone is never sent to", func(t *testing.T) {
		n := &Notifier{}
		for _, phone := range []string{"", "not-a-phone", "0155552671"} {
			n.TokenIssued(entry, phone)
			n.NowServing(entry, phone)
		}
	})
}
