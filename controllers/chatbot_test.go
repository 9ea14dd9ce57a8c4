package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shravan777666/auras-backend/models"
)

func chatTurn(t *testing.T, env *testEnv, sessionID, message string, customerID interface{}) map[string]interface{} {
	t.Helper()
	body := gin.H{"sessionId": sessionID, "message": message}
	if customerID != nil {
		body["customerId"] = customerID
	}
	w := env.request(t, http.MethodPost, "/chatbot/message", "", body)
	if w.Code != http.StatusOK {
		t.Fatalf("chat turn %q: status = %d, body %s", message, w.Code, w.Body.String())
	}
	return decodeEnvelope(t, w)["data"].(map[string]interface{})
}

func TestChatbotJoinFlow(t *testing.T) {
	env := newTestEnv(t)
	salon, customer := env.seedSalonAndCustomer(t)

	haircut := models.Service{SalonID: salon.ID, Name: "Haircut", Price: 25, Duration: 30, IsActive: true}
	if err := env.db.Create(&haircut).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}

	// First message opens a session and lists salons.
	data := chatTurn(t, env, "", "hi", nil)
	sessionID := data["sessionId"].(string)
	if sessionID == "" {
		t.Fatal("expected a session id")
	}
	if data["done"] != false {
		t.Fatal("conversation should not be done yet")
	}

	data = chatTurn(t, env, sessionID, "glow", nil)
	if data["done"] != false {
		t.Fatalf("unexpected end after salon pick: %v", data["reply"])
	}

	data = chatTurn(t, env, sessionID, "join", nil)
	if data["done"] != false {
		t.Fatalf("unexpected end after join: %v", data["reply"])
	}

	data = chatTurn(t, env, sessionID, "haircut", nil)
	if data["done"] != false {
		t.Fatalf("unexpected end after service pick: %v", data["reply"])
	}

	data = chatTurn(t, env, sessionID, "yes", customer.ID)
	if data["done"] != true {
		t.Fatalf("conversation should be done, reply %v", data["reply"])
	}

	var entry models.QueueEntry
	if err := env.db.First(&entry, "salon_id = ?", salon.ID).Error; err != nil {
		t.Fatalf("expected queue entry: %v", err)
	}
	if entry.TokenNumber != "GLO001" {
		t.Fatalf("token = %q, want GLO001", entry.TokenNumber)
	}
	if entry.ServiceID == nil || *entry.ServiceID != haircut.ID {
		t.Fatalf("serviceId = %v, want %s", entry.ServiceID, haircut.ID)
	}

	// Session is gone after the booking.
	if _, ok := env.store.Get(sessionID); ok {
		t.Fatal("session should be deleted after completion")
	}
}

func TestChatbotStatusFlow(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.seedSalonAndCustomer(t)

	data := chatTurn(t, env, "", "hello", nil)
	sessionID := data["sessionId"].(string)

	chatTurn(t, env, sessionID, "1", nil)
	data = chatTurn(t, env, sessionID, "status", nil)
	if data["done"] != true {
		t.Fatalf("status should end the conversation, reply %v", data["reply"])
	}
}

func TestChatbotRepromptsOnUnknownInput(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.seedSalonAndCustomer(t)

	data := chatTurn(t, env, "", "hi", nil)
	sessionID := data["sessionId"].(string)

	data = chatTurn(t, env, sessionID, "the moon", nil)
	if data["done"] != false {
		t.Fatal("unknown salon should re-prompt, not end")
	}
	if _, ok := env.store.Get(sessionID); !ok {
		t.Fatal("session should survive a re-prompt")
	}
}

func TestChatbotJoinNeedsCustomer(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.seedSalonAndCustomer(t)

	data := chatTurn(t, env, "", "hi", nil)
	sessionID := data["sessionId"].(string)

	chatTurn(t, env, sessionID, "1", nil)
	chatTurn(t, env, sessionID, "join", nil)
	chatTurn(t, env, sessionID, "skip", nil)

	data = chatTurn(t, env, sessionID, "yes", nil)
	if data["done"] != false {
		t.Fatal("join without a customer id should keep the session open")
	}

	var count int64
	env.db.Model(&models.QueueEntry{}).Count(&count)
	if count != 0 {
		t.Fatalf("no entry should exist, got %d", count)
	}
}
