package services

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/shravan777666/auras-backend/models"
	"github.com/shravan777666/auras-backend/utils"
)

// Notifier sends queue updates to customers over SMS or WhatsApp. A nil or
// unconfigured notifier is a no-op, so queue operations never depend on
// Twilio being reachable.
type Notifier struct {
	client         *twilio.RestClient
	smsNumber      string
	whatsappNumber string
}

func NewNotifierFromEnv() *Notifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if accountSid == "" || authToken == "" {
		log.Println("Twilio credentials not set, queue notifications disabled")
		return nil
	}

	return &Notifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		smsNumber:      os.Getenv("TWILIO_PHONE_NUMBER"),
		whatsappNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	}
}

// TokenIssued confirms the ticket right after joining the queue.
func (n *Notifier) TokenIssued(entry *models.QueueEntry, phone string) {
	if n == nil || !utils.ValidatePhone(phone) {
		return
	}
	message := fmt.Sprintf("Your queue token is %s (position %d). We'll message you when it's your turn.",
		entry.TokenNumber, entry.QueuePosition)
	n.send(phone, message)
}

// NowServing tells the customer they have been called to service.
func (n *Notifier) NowServing(entry *models.QueueEntry, phone string) {
	if n == nil || !utils.ValidatePhone(phone) {
		return
	}
	message := fmt.Sprintf("Token %s: it's your turn now, please come to the counter.", entry.TokenNumber)
	n.send(phone, message)
}

func (n *Notifier) send(phone, message string) {
	// WhatsApp for E.164 numbers, plain SMS otherwise
	to := phone
	from := n.smsNumber
	if strings.HasPrefix(phone, "+") && n.whatsappNumber != "" {
		to = "whatsapp:" + phone
		from = "whatsapp:" + n.whatsappNumber
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send queue notification to %s: %v", phone, err)
		return
	}
	if resp.Sid != nil {
		log.Printf("Queue notification sent to %s, SID: %s", phone, *resp.Sid)
	} else {
		log.Printf("Queue notification sent to %s, but no SID returned", phone)
	}
}
