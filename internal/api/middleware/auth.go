package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	// SessionName - имя cookie сессии
	SessionName = "employee-session"
	// SessionUserKey - ключ пользователя в сессии
	SessionUserKey = "user"
	// UserKey - ключ текущего пользователя в gin.Context
	UserKey = "user"

	// LoginPath - страница входа
	LoginPath = "/Account/Login"
)

// NewSessionStore создает cookie store для сессий входа
func NewSessionStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   24 * 60 * 60, // 24 часа до автоматического выхода
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CurrentUser читает пользователя из сессии, "" если вход не выполнен
func CurrentUser(c *gin.Context, store sessions.Store) string {
	session, err := store.Get(c.Request, SessionName)
	if err != nil {
		return ""
	}
	user, _ := session.Values[SessionUserKey].(string)
	return user
}

// SignIn запоминает пользователя в сессии
func SignIn(c *gin.Context, store sessions.Store, user string) error {
	// Невалидная старая cookie не мешает создать новую сессию
	session, _ := store.Get(c.Request, SessionName)
	session.Values[SessionUserKey] = user
	return session.Save(c.Request, c.Writer)
}

// SignOut удаляет сессию
func SignOut(c *gin.Context, store sessions.Store) error {
	session, _ := store.Get(c.Request, SessionName)
	delete(session.Values, SessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(c.Request, c.Writer)
}

// LoadUser кладет текущего пользователя в контекст для шаблонов
func LoadUser(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := CurrentUser(c, store); user != "" {
			c.Set(UserKey, user)
		}
		c.Next()
	}
}

// RequireAuth пропускает только вошедших пользователей
// Браузер перенаправляется на страницу входа, JSON клиенты получают 401
func RequireAuth(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c, store)
		if user != "" {
			c.Set(UserKey, user)
			c.Next()
			return
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
			return
		}

		returnURL := c.Request.URL.RequestURI()
		if c.Request.Method != http.MethodGet {
			returnURL = c.Request.URL.Path
		}
		c.Redirect(http.StatusFound, LoginPath+"?ReturnUrl="+url.QueryEscape(returnURL))
		c.Abort()
	}
}

// SafeReturnURL допускает только локальные пути, иначе возвращает fallback
func SafeReturnURL(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	return raw
}
