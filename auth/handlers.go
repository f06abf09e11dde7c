package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/scerios/quiz/domain"
	"github.com/scerios/quiz/sessions"
)

var (
	ErrMissingTokenStr         = "missing-token"
	ErrExpiredTokenStr         = "expired-token"
	ErrServerTimeoutStr        = "server-timeout"
	ErrInvalidRequestFormatStr = "bad-request-format"
	ErrInvalidCredentialsStr   = "invalid-credentials"
	ErrUnknownStr              = "unknown-error"
	ErrNameAlreadyExistsStr    = "name-already-exists"
	ErrWeakPasswordStr         = "weak-password"
	ErrInvalidNameFormatStr    = "invalid-name-format"
	ErrAlreadyLoggedInStr      = "already-logged-in"
)

const (
	sidCookie   = "sid"
	tokenCookie = "token"
)

type Handler struct {
	service      *Service
	store        SessionStore
	cookieMaxAge time.Duration
	cookieSecure bool
	log          zerolog.Logger
}

func NewHandler(service *Service, store SessionStore, cookieMaxAge time.Duration, cookieSecure bool, log zerolog.Logger) *Handler {
	return &Handler{
		service:      service,
		store:        store,
		cookieMaxAge: cookieMaxAge,
		cookieSecure: cookieSecure,
		log:          log,
	}
}

type credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handler) RegisterHandler(ctx *gin.Context) {
	var creds credentials
	if err := ctx.ShouldBindJSON(&creds); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		return
	}

	id, err := h.service.Signup(ctx.Request.Context(), creds.Name, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateName):
			ctx.String(http.StatusConflict, ErrNameAlreadyExistsStr)
		case errors.Is(err, ErrWeakPassword):
			ctx.String(http.StatusBadRequest, ErrWeakPasswordStr)
		case errors.Is(err, ErrInvalidUsernameFormat):
			ctx.String(http.StatusBadRequest, ErrInvalidNameFormatStr)
		case errors.Is(err, context.DeadlineExceeded):
			ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)
		case errors.Is(err, context.Canceled):
			ctx.Status(499) // http code for "Client Closed Request"
		default:
			h.log.Error().Err(err).Str("name", creds.Name).Msg("signup failed")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) LoginHandler(ctx *gin.Context) {
	var creds credentials
	if err := ctx.ShouldBindJSON(&creds); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		return
	}

	reqCtx := ctx.Request.Context()

	player, err := h.service.Login(reqCtx, creds.Name, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrIncorrectPassword), errors.Is(err, domain.ErrPlayerNotFound):
			ctx.String(http.StatusUnauthorized, ErrInvalidCredentialsStr)
		case errors.Is(err, ErrAlreadyLoggedIn):
			ctx.String(http.StatusConflict, ErrAlreadyLoggedInStr)
		case errors.Is(err, context.DeadlineExceeded):
			ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)
		case errors.Is(err, context.Canceled):
			ctx.Status(499)
		default:
			h.log.Error().Err(err).Str("name", creds.Name).Msg("login failed")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		}
		return
	}

	sid, err := h.store.Create(reqCtx, sessions.Session{PlayerID: player.ID, PlayerName: player.Name})
	if err != nil {
		h.log.Error().Err(err).Msg("session create failed")
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		return
	}

	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(sidCookie, sid, int(h.cookieMaxAge.Seconds()), "/", "", h.cookieSecure, true)
	ctx.JSON(http.StatusOK, gin.H{"id": player.ID, "name": player.Name})
}

func (h *Handler) LogoutHandler(ctx *gin.Context) {
	sid, err := ctx.Cookie(sidCookie)
	if err != nil {
		ctx.Status(http.StatusOK)
		return
	}

	reqCtx := ctx.Request.Context()

	if sess, err := h.store.Get(reqCtx, sid); err == nil {
		if err := h.service.Logout(reqCtx, sess.PlayerID); err != nil {
			h.log.Error().Err(err).Int64("playerId", sess.PlayerID).Msg("logout status update failed")
		}
	}
	if err := h.store.Delete(reqCtx, sid); err != nil {
		h.log.Error().Err(err).Msg("session delete failed")
	}

	ctx.SetCookie(sidCookie, "", -1, "/", "", h.cookieSecure, true)
	ctx.Status(http.StatusOK)
}

func (h *Handler) AdminLoginHandler(ctx *gin.Context) {
	var creds credentials
	if err := ctx.ShouldBindJSON(&creds); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		return
	}

	token, err := h.service.AdminLogin(ctx.Request.Context(), creds.Name, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrIncorrectPassword), errors.Is(err, domain.ErrAdminNotFound):
			ctx.String(http.StatusUnauthorized, ErrInvalidCredentialsStr)
		case errors.Is(err, context.DeadlineExceeded):
			ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)
		case errors.Is(err, context.Canceled):
			ctx.Status(499)
		default:
			h.log.Error().Err(err).Str("name", creds.Name).Msg("admin login failed")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		}
		return
	}

	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(tokenCookie, token, int(h.cookieMaxAge.Seconds()), "/", "", h.cookieSecure, true)
	ctx.Status(http.StatusOK)
}

// RequireAdminMiddleware guards the control-panel routes behind the admin
// token cookie.
func (h *Handler) RequireAdminMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(tokenCookie)
		if err != nil {
			ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
			ctx.Abort()
			return
		}

		name, err := h.service.VerifyAdminToken(token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrExpiredToken):
				ctx.String(http.StatusUnauthorized, ErrExpiredTokenStr)
			default:
				h.log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("admin token rejected")
				ctx.String(http.StatusUnauthorized, ErrInvalidCredentialsStr)
			}
			ctx.Abort()
			return
		}

		ctx.Set("admin", name)
		ctx.Next()
	}
}

// RequirePlayerMiddleware resolves the sid cookie into a player session and
// stores it on the gin context under "playerId" / "playerName".
func (h *Handler) RequirePlayerMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sid, err := ctx.Cookie(sidCookie)
		if err != nil {
			ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
			ctx.Abort()
			return
		}

		sess, err := h.store.Get(ctx.Request.Context(), sid)
		if err != nil {
			if errors.Is(err, sessions.ErrSessionNotFound) {
				ctx.String(http.StatusUnauthorized, ErrExpiredTokenStr)
			} else {
				h.log.Error().Err(err).Msg("session lookup failed")
				ctx.String(http.StatusInternalServerError, ErrUnknownStr)
			}
			ctx.Abort()
			return
		}

		ctx.Set("playerId", sess.PlayerID)
		ctx.Set("playerName", sess.PlayerName)
		ctx.Next()
	}
}
