package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techzon-blog/internal/domain"
	"techzon-blog/internal/service"
	"techzon-blog/internal/transport/http/ez"
	resp "techzon-blog/internal/transport/http/response"
)

type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(s *service.AdminService) *AdminHandler { return &AdminHandler{admin: s} }

type tokenOut struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type pageQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // email/name contains
}

type page[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

func (h *AdminHandler) MountAdmin(r ez.Routes) {
	ez.RegisterAction(r.Limited, ez.Action[credentialsIn, tokenOut]{
		Method: http.MethodPost, Path: "/auth/token", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *credentialsIn) (tokenOut, error) {
			tok, ttl, err := h.admin.IssueToken(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: tok, ExpiresIn: int64(ttl.Seconds())}, nil
		},
	})

	ez.RegisterAction(r.Authed, ez.Action[pageQ, page[domain.User]]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (page[domain.User], error) {
			items, total, err := h.admin.ListUsers(c.Request.Context(), in.Q, in.Offset, in.Limit)
			if err != nil {
				return page[domain.User]{}, err
			}
			return page[domain.User]{Total: total, Items: items}, nil
		},
	})

	ez.RegisterAction(r.Authed, ez.Action[pageQ, page[domain.Subscriber]]{
		Method: http.MethodGet, Path: "/subscribers", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (page[domain.Subscriber], error) {
			items, total, err := h.admin.ListSubscribers(c.Request.Context(), in.Offset, in.Limit)
			if err != nil {
				return page[domain.Subscriber]{}, err
			}
			return page[domain.Subscriber]{Total: total, Items: items}, nil
		},
	})

	ez.RegisterAction(r.Authed, ez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete, Path: "/posts/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			if err := h.admin.RemovePost(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Success: true}, nil
		},
	})
}
