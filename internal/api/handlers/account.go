package handlers

import (
	"net/http"

	"employee-directory/internal/api/middleware"
	"employee-directory/internal/models"
	"employee-directory/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const invalidLoginMessage = "Invalid login attempt"

// AccountHandler обслуживает вход и выход
type AccountHandler struct {
	auth  *auth.Service
	store sessions.Store
}

// NewAccountHandler создает handler входа
func NewAccountHandler(auth *auth.Service, store sessions.Store) *AccountHandler {
	return &AccountHandler{auth: auth, store: store}
}

// LoginForm показывает страницу входа
func (h *AccountHandler) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", "Login", models.LoginViewModel{
		ReturnURL: c.Query("ReturnUrl"),
	})
}

// Login проверяет учетные данные и открывает сессию
func (h *AccountHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, req)
		return
	}

	if err := h.auth.Authenticate(req.Username, req.Password); err != nil {
		log.Warn().Str("username", req.Username).Msg("Неудачная попытка входа")
		h.loginFailed(c, req)
		return
	}

	if err := middleware.SignIn(c, h.store, req.Username); err != nil {
		log.Error().Err(err).Msg("не удалось сохранить сессию")
		render(c, http.StatusInternalServerError, "error.html", "Error", c.GetString(middleware.RequestIDKey))
		return
	}

	c.Redirect(http.StatusFound, middleware.SafeReturnURL(req.ReturnURL, IndexURL))
}

// Logout закрывает сессию
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := middleware.SignOut(c, h.store); err != nil {
		log.Warn().Err(err).Msg("не удалось удалить сессию")
	}
	c.Redirect(http.StatusFound, IndexURL)
}

func (h *AccountHandler) loginFailed(c *gin.Context, req models.LoginRequest) {
	render(c, http.StatusOK, "login.html", "Login", models.LoginViewModel{
		Username:  req.Username,
		ReturnURL: req.ReturnURL,
		Error:     invalidLoginMessage,
	})
}
