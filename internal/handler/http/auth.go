package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/auth"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService  jwt.Service
	authService auth.AuthService
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:  jwtService,
		authService: authService,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest
	if !decodeJSON(w, r, &loginReq) {
		return
	}

	session := auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	tokenResponse, err := a.authService.Login(r.Context(), loginReq, session)
	if err != nil {
		slog.Warn("Login failed", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	response.Created(w, "User logged in successfully", tokenResponse)
}

// Logout implements AuthHandler. The refresh token comes from the cookie or the body.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if cookie, err := r.Cookie("refresh_token"); err == nil && cookie.Value != "" {
		req.RefreshToken = cookie.Value
	} else if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		response.HandleError(w, err)
		return
	}

	if accessToken := jwtauth.TokenFromHeader(r); accessToken != "" {
		a.jwtService.RevokeToken(accessToken)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	response.SuccessWithMessage(w, "User logged out successfully", nil)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if cookie, err := r.Cookie("refresh_token"); err == nil && cookie.Value != "" {
		req.RefreshToken = cookie.Value
	} else if !decodeJSON(w, r, &req) {
		return
	}

	tokenResponse, err := a.authService.RefreshToken(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Token refreshed successfully", tokenResponse)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	me, err := a.authService.Me(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, me)
}
