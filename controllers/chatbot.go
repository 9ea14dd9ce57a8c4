package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shravan777666/auras-backend/models"
	"github.com/shravan777666/auras-backend/services"
	"github.com/shravan777666/auras-backend/utils"
)

const chatListLimit = 5

// ChatMessageInput defines the expected JSON structure for a chatbot message
type ChatMessageInput struct {
	SessionID  string     `json:"sessionId"`
	Message    string     `json:"message" binding:"required"`
	CustomerID *uuid.UUID `json:"customerId"`
}

// ChatbotController drives the walk-in booking conversation. All state lives
// in the injected session store, so the handler itself is stateless.
type ChatbotController struct {
	DB    *gorm.DB
	Store services.SessionStore
	Queue *services.QueueService
}

func NewChatbotController(db *gorm.DB, store services.SessionStore, queue *services.QueueService) *ChatbotController {
	return &ChatbotController{DB: db, Store: store, Queue: queue}
}

// Message handles one turn of the conversation
func (cc *ChatbotController) Message(c *gin.Context) {
	var input ChatMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sessionID := input.SessionID
	session, ok := cc.Store.Get(sessionID)
	if sessionID == "" || !ok {
		sessionID = uuid.NewString()
		session = &services.ChatSession{State: services.ChatStateChooseSalon}
		cc.Store.Put(sessionID, session)
		cc.reply(c, sessionID, "Hi! I can get you a spot in a salon queue. "+cc.salonPrompt(), false)
		return
	}

	message := strings.ToLower(strings.TrimSpace(input.Message))

	switch session.State {
	case services.ChatStateChooseSalon:
		cc.handleChooseSalon(c, sessionID, session, message)
	case services.ChatStateChooseAction:
		cc.handleChooseAction(c, sessionID, session, message)
	case services.ChatStateChooseService:
		cc.handleChooseService(c, sessionID, session, message)
	case services.ChatStateConfirmJoin:
		cc.handleConfirmJoin(c, sessionID, session, message, input.CustomerID)
	default:
		cc.Store.Delete(sessionID)
		cc.reply(c, sessionID, "Something went wrong, let's start over. "+cc.salonPrompt(), true)
	}
}

func (cc *ChatbotController) handleChooseSalon(c *gin.Context, sessionID string, session *services.ChatSession, message string) {
	salons, err := cc.activeSalons()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	salon := pickSalon(salons, message)
	if salon == nil {
		cc.reply(c, sessionID, "I didn't catch that. "+cc.salonPrompt(), false)
		return
	}

	session.SalonID = salon.ID
	session.State = services.ChatStateChooseAction
	cc.Store.Put(sessionID, session)
	cc.reply(c, sessionID, fmt.Sprintf("Great, %s it is. Would you like to 'join' the queue or check its 'status'?", salon.Name), false)
}

func (cc *ChatbotController) handleChooseAction(c *gin.Context, sessionID string, session *services.ChatSession, message string) {
	switch {
	case strings.Contains(message, "join"):
		svcList, err := cc.activeServices(session.SalonID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		session.State = services.ChatStateChooseService
		cc.Store.Put(sessionID, session)
		if len(svcList) == 0 {
			cc.reply(c, sessionID, "Say 'skip' to join without picking a service.", false)
			return
		}
		var sb strings.Builder
		sb.WriteString("Which service? ")
		for i, svc := range svcList {
			fmt.Fprintf(&sb, "%d) %s (%d min)  ", i+1, svc.Name, svc.Duration)
		}
		sb.WriteString("Or say 'skip'.")
		cc.reply(c, sessionID, sb.String(), false)

	case strings.Contains(message, "status"):
		snap, err := cc.Queue.SalonSnapshot(session.SalonID)
		if err != nil {
			respondQueueError(c, err)
			return
		}
		reply := fmt.Sprintf("%d waiting, roughly %d minutes of queue.", snap.TotalWaiting, snap.EstimatedWaitMinutes)
		if snap.CurrentServing != "" {
			reply = "Now serving " + snap.CurrentServing + ". " + reply
		}
		cc.Store.Delete(sessionID)
		cc.reply(c, sessionID, reply, true)

	default:
		cc.reply(c, sessionID, "Please say 'join' or 'status'.", false)
	}
}

func (cc *ChatbotController) handleChooseService(c *gin.Context, sessionID string, session *services.ChatSession, message string) {
	if message != "skip" && message != "none" {
		svcList, err := cc.activeServices(session.SalonID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		svc := pickService(svcList, message)
		if svc == nil {
			cc.reply(c, sessionID, "I don't know that service. Pick one by number or name, or say 'skip'.", false)
			return
		}
		session.ServiceID = &svc.ID
	}

	session.State = services.ChatStateConfirmJoin
	cc.Store.Put(sessionID, session)
	cc.reply(c, sessionID, "Shall I put you in the queue? (yes/no)", false)
}

func (cc *ChatbotController) handleConfirmJoin(c *gin.Context, sessionID string, session *services.ChatSession, message string, customerID *uuid.UUID) {
	switch message {
	case "yes", "y", "sure", "ok":
		if customerID == nil {
			cc.reply(c, sessionID, "I need you to be signed in to join — please include your customer ID.", false)
			return
		}
		entry, err := cc.Queue.Join(services.JoinInput{
			SalonID:    session.SalonID,
			CustomerID: *customerID,
			ServiceID:  session.ServiceID,
		})
		if err != nil {
			respondQueueError(c, err)
			return
		}
		cc.Store.Delete(sessionID)
		wait := entry.QueuePosition * 30
		cc.reply(c, sessionID, fmt.Sprintf("You're in! Token %s, position %d, about %d minutes.",
			entry.TokenNumber, entry.QueuePosition, wait), true)

	case "no", "n", "cancel":
		cc.Store.Delete(sessionID)
		cc.reply(c, sessionID, "No problem, nothing booked.", true)

	default:
		cc.reply(c, sessionID, "Please answer 'yes' or 'no'.", false)
	}
}

func (cc *ChatbotController) reply(c *gin.Context, sessionID, text string, done bool) {
	utils.RespondWithData(c, http.StatusOK, gin.H{
		"sessionId": sessionID,
		"reply":     text,
		"done":      done,
	})
}

func (cc *ChatbotController) salonPrompt() string {
	salons, err := cc.activeSalons()
	if err != nil || len(salons) == 0 {
		return "Which salon would you like?"
	}
	var sb strings.Builder
	sb.WriteString("Which salon? ")
	for i, salon := range salons {
		fmt.Fprintf(&sb, "%d) %s  ", i+1, salon.Name)
	}
	return sb.String()
}

func (cc *ChatbotController) activeSalons() ([]models.Salon, error) {
	var salons []models.Salon
	err := cc.DB.Where("is_active = ?", true).Order("name asc").Limit(chatListLimit).Find(&salons).Error
	return salons, err
}

func (cc *ChatbotController) activeServices(salonID uuid.UUID) ([]models.Service, error) {
	var svcs []models.Service
	err := cc.DB.Where("salon_id = ? AND is_active = ?", salonID, true).Order("name asc").Limit(chatListLimit).Find(&svcs).Error
	return svcs, err
}

func pickSalon(salons []models.Salon, message string) *models.Salon {
	if idx, err := strconv.Atoi(message); err == nil && idx >= 1 && idx <= len(salons) {
		return &salons[idx-1]
	}
	for i := range salons {
		if strings.Contains(strings.ToLower(salons[i].Name), message) && message != "" {
			return &salons[i]
		}
	}
	return nil
}

func pickService(svcs []models.Service, message string) *models.Service {
	if idx, err := strconv.Atoi(message); err == nil && idx >= 1 && idx <= len(svcs) {
		return &svcs[idx-1]
	}
	for i := range svcs {
		if strings.Contains(strings.ToLower(svcs[i].Name), message) && message != "" {
			return &svcs[i]
		}
	}
	return nil
}
