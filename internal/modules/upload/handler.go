package upload

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photomarket/internal/domain"
	"photomarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/deliverables", h.Upload)
	rg.GET("/bookings/:id/deliverables", h.List)
	rg.DELETE("/deliverables/:id", h.Delete)
}

func (h *Handler) Upload(c *gin.Context) {
	userID := c.GetInt64("user_id")

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "File is required")
		return
	}

	d, err := h.service.Store(c.Request.Context(), userID, bookingID, fh)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"deliverable": d})
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := domain.UserRole(c.GetString("role"))

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	list, err := h.service.List(c.Request.Context(), userID, role, bookingID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deliverables": list})
}

func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := domain.UserRole(c.GetString("role"))

	id := c.Param("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid deliverable ID")
		return
	}

	if err := h.service.Remove(c.Request.Context(), userID, role, id); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrNotUploader):
		response.Error(c, http.StatusForbidden, "NOT_UPLOADER", "Only the assigned photographer can upload")
	case errors.Is(err, ErrInvalidFormat):
		response.Error(c, http.StatusBadRequest, "INVALID_FORMAT", "Unsupported file format")
	case errors.Is(err, ErrTooLarge):
		response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", "File exceeds size limit")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
