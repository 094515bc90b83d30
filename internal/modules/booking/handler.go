package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photomarket/internal/domain"
	"photomarket/internal/middleware"
	"photomarket/internal/pkg/response"
	vld "photomarket/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/bookings")
	{
		g.POST("", middleware.RequireRole(domain.RoleClient), h.Create)
		g.GET("", h.List)
		g.GET("/status-history/last", middleware.RequireRole(domain.RoleClient), h.LastStatusHistory)
		g.GET("/:id", h.Get)
		g.GET("/:id/status", h.StatusHistory)
		g.GET("/:id/timeline", h.Timeline)
		g.POST("/:id/assign", middleware.AdminOnly(), h.Assign)
		g.POST("/:id/accept", middleware.RequireRole(domain.RolePhotographer), h.Accept)
		g.POST("/:id/reject", middleware.RequireRole(domain.RolePhotographer), h.Reject)
		g.PATCH("/:id/status", h.AdvanceStatus)
		g.POST("/:id/cancel", h.Cancel)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", vld.Fields(err))
		return
	}

	b, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Scheduled time must be in the future")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), roleOf(c), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), c.GetInt64("user_id"), roleOf(c), id)
	if err != nil {
		h.writeError(c, err, "Failed to get booking")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Assign(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Assign(c.Request.Context(), c.GetInt64("user_id"), id, req.PhotographerID)
	if err != nil {
		h.writeError(c, err, "Failed to assign photographer")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Accept(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.Accept(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err, "Failed to accept booking")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Reject(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req RejectRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	if err := h.service.Reject(c.Request.Context(), c.GetInt64("user_id"), id, req.Reason); err != nil {
		h.writeError(c, err, "Failed to reject booking")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "rejected"})
}

func (h *Handler) AdvanceStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.AdvanceStatus(c.Request.Context(),
		c.GetInt64("user_id"), roleOf(c), id, domain.BookingStatus(req.Status), req.Notes)
	if err != nil {
		h.writeError(c, err, "Failed to update status")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), roleOf(c), id, req.Reason)
	if err != nil {
		h.writeError(c, err, "Failed to cancel booking")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) StatusHistory(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	entries, err := h.service.StatusHistory(c.Request.Context(), c.GetInt64("user_id"), roleOf(c), id)
	if err != nil {
		h.writeError(c, err, "Failed to get status history")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status_history": entries})
}

func (h *Handler) LastStatusHistory(c *gin.Context) {
	bookingID, entries, err := h.service.LastStatusHistory(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "No bookings yet")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get status history")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"booking_id":     bookingID,
		"status_history": entries,
	})
}

func (h *Handler) Timeline(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	tl, stats, err := h.service.Timeline(c.Request.Context(), c.GetInt64("user_id"), roleOf(c), id)
	if err != nil {
		h.writeError(c, err, "Failed to derive timeline")
		return
	}
	if tl == nil {
		// No history yet: an empty state, not an error.
		response.Success(c, http.StatusOK, gin.H{"timeline": nil})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"timeline": tl, "progress": stats})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotAssigned):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status transition not allowed")
	case errors.Is(err, ErrNotPhotographer):
		response.Error(c, http.StatusBadRequest, "NOT_PHOTOGRAPHER", "User is not a photographer")
	case errors.Is(err, ErrAlreadyAssigned):
		response.Error(c, http.StatusConflict, "ALREADY_ASSIGNED", "Booking already has an accepted photographer")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func roleOf(c *gin.Context) domain.UserRole {
	return domain.UserRole(c.GetString("role"))
}
