package message

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"photomarket/internal/domain"
	"photomarket/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are already filtered by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	service *Service
	hub     *Hub
	log     *zap.Logger
}

func NewHandler(service *Service, hub *Hub, log *zap.Logger) *Handler {
	return &Handler{service: service, hub: hub, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/:id/messages", h.List)
	rg.POST("/bookings/:id/messages", h.Send)
	rg.GET("/ws", h.ServeWS)
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := domain.UserRole(c.GetString("role"))

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	msgs, err := h.service.List(c.Request.Context(), userID, role, bookingID, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) Send(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := domain.UserRole(c.GetString("role"))

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	msg, err := h.service.Send(c.Request.Context(), userID, role, bookingID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

// ServeWS upgrades the connection and parks it in the hub. The auth
// middleware accepts the token from the query string, which is how the
// dashboard connects since browsers cannot set WS headers.
func (h *Handler) ServeWS(c *gin.Context) {
	userID := c.GetInt64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	cl := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan WSEnvelope, 32),
	}
	h.hub.register(cl)

	go cl.writePump()
	go cl.readPump(h.hub)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not a participant of this conversation")
	case errors.Is(err, ErrNoPhotographer):
		response.Error(c, http.StatusConflict, "NO_PHOTOGRAPHER", "No photographer assigned yet")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
