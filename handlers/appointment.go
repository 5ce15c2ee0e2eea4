package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotbook/services/scheduling"
)

// AppointmentHandler exposes the booking engine over HTTP.
type AppointmentHandler struct {
	Engine scheduling.BookingEngine
	Logger *zap.Logger
}

// NewAppointmentHandler returns a handler bound to the given engine.
func NewAppointmentHandler(engine scheduling.BookingEngine, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Engine: engine, Logger: logger}
}

// respondError maps the scheduling error taxonomy onto HTTP statuses.
func (h *AppointmentHandler) respondError(c *gin.Context, err error) {
	var verr *scheduling.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
		return
	}
	var cerr *scheduling.ConflictError
	if errors.As(err, &cerr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":            "one or more requested slots are already booked",
			"date":             cerr.Date,
			"conflictingSlots": cerr.Slots,
		})
		return
	}
	var nerr *scheduling.NotFoundError
	if errors.As(err, &nerr) {
		c.JSON(http.StatusNotFound, gin.H{"error": nerr.Error()})
		return
	}
	h.Logger.Error("appointment request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// Create books a new appointment covering one or more slots.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req scheduling.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Engine.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Member writes are independent: some may have failed while others stuck.
	// The caller sees both sides and can retry just the failed slots.
	switch {
	case len(result.RecordIDs) == 0:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no booking records could be written", "failedSlots": result.FailedSlots})
	case result.Partial():
		c.JSON(http.StatusCreated, gin.H{"recordIds": result.RecordIDs, "failedSlots": result.FailedSlots, "partial": true})
	default:
		c.JSON(http.StatusCreated, gin.H{"recordIds": result.RecordIDs})
	}
}

// GetDay returns the grouped appointments for one calendar day.
func (h *AppointmentHandler) GetDay(c *gin.Context) {
	appointments, err := h.Engine.GetDayAppointments(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// GetRange returns the grouped appointments for an inclusive date range.
func (h *AppointmentHandler) GetRange(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to query parameters are required"})
		return
	}
	appointments, err := h.Engine.GetRangeAppointments(c.Request.Context(), from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// GetClient returns a client's booking history, grouped.
func (h *AppointmentHandler) GetClient(c *gin.Context) {
	appointments, err := h.Engine.GetClientAppointments(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// GetByRecord returns the full appointment a single record belongs to.
func (h *AppointmentHandler) GetByRecord(c *gin.Context) {
	appointment, err := h.Engine.GetAppointmentByRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

type groupStatusRequest struct {
	RecordIDs []string `json:"recordIds" binding:"required"`
	Status    string   `json:"status" binding:"required"`
}

// SetStatus applies a status change to every record of a group.
func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	var req groupStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	result, err := h.Engine.SetGroupStatus(c.Request.Context(), req.RecordIDs, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type groupPaymentRequest struct {
	RecordIDs     []string `json:"recordIds" binding:"required"`
	PaymentMethod string   `json:"paymentMethod" binding:"required"`
}

// SetPayment applies a payment-method change to every record of a group.
func (h *AppointmentHandler) SetPayment(c *gin.Context) {
	var req groupPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	result, err := h.Engine.SetGroupPaymentMethod(c.Request.Context(), req.RecordIDs, req.PaymentMethod)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type groupDeleteRequest struct {
	RecordIDs []string `json:"recordIds" binding:"required"`
}

// DeleteGroup deletes every record of a group.
func (h *AppointmentHandler) DeleteGroup(c *gin.Context) {
	var req groupDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	result, err := h.Engine.DeleteGroup(c.Request.Context(), req.RecordIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateRecord edits a single record: notes, or a conflict-checked move to
// another slot.
func (h *AppointmentHandler) UpdateRecord(c *gin.Context) {
	var upd scheduling.RecordUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	rec, err := h.Engine.UpdateRecord(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
