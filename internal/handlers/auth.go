package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"portfolio-content-api/internal/middleware"
	"portfolio-content-api/internal/models"
	"portfolio-content-api/internal/session"
)

type AuthHandler struct {
	gate     *middleware.SessionGate
	verifier *session.PasswordVerifier
	logger   *slog.Logger
}

func NewAuthHandler(gate *middleware.SessionGate, verifier *session.PasswordVerifier, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{gate: gate, verifier: verifier, logger: logger.With("handler", "auth")}
}

// Status godoc
// @Summary     Check the admin session
// @Tags        auth
// @Produce     json
// @Success     200 {object} models.Response{data=models.AuthStatus}
// @Router      /API/auth [get]
func (h *AuthHandler) Status(c *gin.Context) {
	authenticated := middleware.GetAuth(c).Authenticated
	message := "Not authenticated"
	if authenticated {
		message = "Authenticated"
	}
	c.JSON(http.StatusOK, models.OK(message, models.AuthStatus{Authenticated: authenticated}))
}

// Action godoc
// @Summary     Log in or out
// @Description {"action":"login","password":"..."} starts an admin session, {"action":"logout"} ends it.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Success     200 {object} models.Response
// @Router      /API/auth [post]
func (h *AuthHandler) Action(c *gin.Context) {
	var req models.LoginRequest
	_ = c.ShouldBindJSON(&req)

	switch req.Action {
	case "login":
		h.login(c, req)
	case "logout":
		h.logout(c)
	default:
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, "Invalid action"))
	}
}

func (h *AuthHandler) login(c *gin.Context, req models.LoginRequest) {
	if req.Password == nil {
		c.JSON(http.StatusOK, models.Fail(models.CodeValidation, "Password is required"))
		return
	}
	if !h.verifier.Verify(*req.Password) {
		h.logger.Warn("failed admin login", "client_ip", c.ClientIP())
		c.JSON(http.StatusOK, models.Fail(models.CodeUnauthorized, "Invalid password"))
		return
	}

	ctx := c.Request.Context()
	if previous := middleware.GetAuth(c).SessionID; previous != "" {
		_ = h.gate.Manager().Logout(ctx, previous)
	}

	sess, err := h.gate.Manager().Login(ctx)
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		c.JSON(http.StatusInternalServerError, models.Fail(models.CodeStorage, "Failed to create session"))
		return
	}
	if err := h.gate.Issue(c, sess); err != nil {
		h.logger.Error("failed to sign session cookie", "error", err)
		c.JSON(http.StatusInternalServerError, models.Fail(models.CodeStorage, "Failed to create session"))
		return
	}

	c.JSON(http.StatusOK, models.OK("Login successful", models.AuthStatus{Authenticated: true}))
}

func (h *AuthHandler) logout(c *gin.Context) {
	if id := middleware.GetAuth(c).SessionID; id != "" {
		if err := h.gate.Manager().Logout(c.Request.Context(), id); err != nil {
			h.logger.Error("failed to end session", "error", err)
		}
	}
	h.gate.Clear(c)
	c.JSON(http.StatusOK, models.OK("Logout successful", nil))
}
