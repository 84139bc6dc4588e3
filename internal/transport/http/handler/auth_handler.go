package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"

	"techzon-blog/internal/core/apperr"
	"techzon-blog/internal/core/session"
	"techzon-blog/internal/domain"
	"techzon-blog/internal/service"
	"techzon-blog/internal/transport/http/ez"
	mdw "techzon-blog/internal/transport/http/middleware"
	resp "techzon-blog/internal/transport/http/response"
)

type AuthHandler struct {
	auth *service.AuthService
	sm   *scs.SessionManager
}

func NewAuthHandler(a *service.AuthService, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{auth: a, sm: sm}
}

func (h *AuthHandler) Priority() int { return 10 }

type credentialsIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userOut struct {
	Message string             `json:"message,omitempty"`
	User    domain.SessionUser `json:"user"`
}

type forgotIn struct {
	Email string `json:"email"`
}

func (h *AuthHandler) MountAPI(r ez.Routes) {
	ez.RegisterAction(r.Limited, ez.Action[service.RegisterInput, resp.Message]{
		Method: http.MethodPost, Path: "/auth/register", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (resp.Message, error) {
			if _, err := h.auth.Register(c.Request.Context(), *in); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Account created successfully!"}, nil
		},
	})

	ez.RegisterAction(r.Limited, ez.Action[credentialsIn, userOut]{
		Method: http.MethodPost, Path: "/auth/login", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *credentialsIn) (userOut, error) {
			ctx := c.Request.Context()
			u, err := h.auth.Login(ctx, in.Email, in.Password)
			if err != nil {
				return userOut{}, err
			}
			pub := u.Public()
			if err := session.Login(ctx, h.sm, pub); err != nil {
				return userOut{}, apperr.Internal("Server error during login", err)
			}
			return userOut{Message: "Login successful!", User: pub}, nil
		},
	})

	ez.RegisterAction(r.Limited, ez.Action[forgotIn, resp.Message]{
		Method: http.MethodPost, Path: "/auth/forgot-password", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *forgotIn) (resp.Message, error) {
			if err := h.auth.RequestPasswordReset(c.Request.Context(), in.Email); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Password reset link sent to your email."}, nil
		},
	})

	ez.RegisterAction(r.Limited, ez.Action[service.ResetInput, resp.Message]{
		Method: http.MethodPost, Path: "/auth/reset-password", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.ResetInput) (resp.Message, error) {
			if err := h.auth.ResetPassword(c.Request.Context(), *in); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Password has been reset successfully."}, nil
		},
	})

	ez.RegisterAction(r.Authed, ez.Action[struct{}, userOut]{
		Method: http.MethodGet, Path: "/auth/me", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			u, ok := mdw.CurrentUser(c)
			if !ok {
				return userOut{}, apperr.Unauthorized("Not authenticated")
			}
			return userOut{User: u}, nil
		},
	})

	ez.RegisterAction(r.Authed, ez.Action[struct{}, resp.Message]{
		Method: http.MethodPost, Path: "/auth/logout", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			if err := session.Logout(c.Request.Context(), h.sm); err != nil {
				return resp.Message{}, apperr.Internal("Could not log out", err)
			}
			return resp.Message{Message: "Logged out successfully"}, nil
		},
	})
}
