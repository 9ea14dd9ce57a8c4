package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shravan777666/auras-backend/services"
	"github.com/shravan777666/auras-backend/utils"
)

// JoinQueueInput defines the expected JSON structure for joining the queue
type JoinQueueInput struct {
	CustomerID uuid.UUID  `json:"customerId" binding:"required"`
	ServiceID  *uuid.UUID `json:"serviceId"`
}

// UpdateQueueInput defines the expected JSON structure for a queue transition
type UpdateQueueInput struct {
	TokenNumber string     `json:"tokenNumber" binding:"required"`
	Action      string     `json:"action" binding:"required"`
	StaffID     *uuid.UUID `json:"staffId"`
}

// CheckInInput defines the expected JSON structure for a QR check-in
type CheckInInput struct {
	TokenNumber string `json:"tokenNumber" binding:"required"`
}

type QueueController struct {
	Service *services.QueueService
}

func NewQueueController(service *services.QueueService) *QueueController {
	return &QueueController{Service: service}
}

// Join creates a queue entry for a customer at the salon in the token
func (qc *QueueController) Join(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input JoinQueueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	entry, err := qc.Service.Join(services.JoinInput{
		SalonID:    salonUUID,
		CustomerID: input.CustomerID,
		ServiceID:  input.ServiceID,
	})
	if err != nil {
		respondQueueError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusCreated, entry)
}

// Status returns the salon dashboard snapshot
func (qc *QueueController) Status(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	snap, err := qc.Service.Status(salonUUID)
	if err != nil {
		respondQueueError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, snap)
}

// List returns a paginated queue history, optionally filtered by status
func (qc *QueueController) List(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, total, err := qc.Service.List(salonUUID, c.Query("status"), page, limit)
	if err != nil {
		respondQueueError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// UpdateStatus applies next / skip / complete to an entry
func (qc *QueueController) UpdateStatus(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input UpdateQueueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	action, err := services.ParseQueueAction(input.Action)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid action: must be next, skip or complete")
		return
	}

	entry, err := qc.Service.Update(salonUUID, input.TokenNumber, action, input.StaffID)
	if err != nil {
		respondQueueError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, entry)
}

// ByToken is the public entry lookup
func (qc *QueueController) ByToken(c *gin.Context) {
	entry, err := qc.Service.ByToken(c.Param("tokenNumber"))
	if err != nil {
		respondQueueError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, entry)
}

// CustomerStatus is the public entry view with wait estimate
func (qc *QueueController) CustomerStatus(c *gin.Context) {
	view, err := qc.Service.CustomerStatus(c.Param("tokenNumber"))
	if err != nil {
		respondQueueError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, view)
}

// SalonSnapshot is the public salon-wide snapshot
func (qc *QueueController) SalonSnapshot(c *gin.Context) {
	salonUUID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid salon ID format")
		return
	}

	snap, err := qc.Service.SalonSnapshot(salonUUID)
	if err != nil {
		respondQueueError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, snap)
}

// CheckIn is the public QR check-in
func (qc *QueueController) CheckIn(c *gin.Context) {
	var input CheckInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	entry, err := qc.Service.CheckIn(input.TokenNumber)
	if err != nil {
		respondQueueError(c, err)
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, entry, "Checked in")
}

func salonFromContext(c *gin.Context) (uuid.UUID, bool) {
	salonID, exists := c.Get("salonId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return uuid.Nil, false
	}

	raw, ok := salonID.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid salon ID claim")
		return uuid.Nil, false
	}

	// A claim that is not a UUID means the token itself is bad.
	salonUUID, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid salon ID claim")
		return uuid.Nil, false
	}
	return salonUUID, true
}

func respondQueueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSalonNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrServiceNotFound),
		errors.Is(err, services.ErrStaffNotFound),
		errors.Is(err, services.ErrEntryNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidAction):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEntryFinished),
		errors.Is(err, services.ErrNotInLine),
		errors.Is(err, services.ErrAlreadyCheckedIn):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("queue handler error: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
