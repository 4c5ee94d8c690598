package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"mafia/backend/internal/auth"
	"mafia/backend/internal/hub"
	"mafia/backend/internal/service"
	"mafia/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Handler exposes the service over HTTP.
type Handler struct {
	svc       *service.Service
	hub       *hub.Hub
	jwtSecret string
}

func New(svc *service.Service, h *hub.Hub, jwtSecret string) *Handler {
	return &Handler{svc: svc, hub: h, jwtSecret: jwtSecret}
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

var statusByKind = map[service.Kind]int{
	service.KindNotFound:            http.StatusNotFound,
	service.KindInvalidInput:        http.StatusBadRequest,
	service.KindInvalidTransition:   http.StatusConflict,
	service.KindInsufficientPlayers: http.StatusUnprocessableEntity,
	service.KindInvalidRosterSize:   http.StatusUnprocessableEntity,
	service.KindRosterCapExceeded:   http.StatusConflict,
	service.KindInvalidSignature:    http.StatusUnauthorized,
	service.KindUnauthenticated:     http.StatusUnauthorized,
	service.KindUnconfigured:        http.StatusInternalServerError,
	service.KindInternal:            http.StatusInternalServerError,
}

func respondError(c *gin.Context, err error) {
	status, ok := statusByKind[service.KindOf(err)]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := err.Error()
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{Error: message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// bindOptionalJSON binds a body that may be empty.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// orViewer falls back to the authenticated user when id is not given.
func orViewer(c *gin.Context, id uint) uint {
	if id != 0 {
		return id
	}
	viewer, _ := auth.UserID(c)
	return viewer
}

func (h *Handler) issueToken(userID uint) (string, error) {
	if h.jwtSecret == "" {
		return "", nil
	}
	return jwt.GenerateToken(userID, h.jwtSecret)
}
