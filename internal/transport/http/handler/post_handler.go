package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techzon-blog/internal/domain"
	"techzon-blog/internal/service"
	"techzon-blog/internal/transport/http/ez"
	mdw "techzon-blog/internal/transport/http/middleware"
	resp "techzon-blog/internal/transport/http/response"
)

type PostHandler struct {
	content *service.ContentService
}

func NewPostHandler(c *service.ContentService) *PostHandler { return &PostHandler{content: c} }

type listPostsQ struct {
	Query string `form:"query"`
}

type postSaved struct {
	Success bool         `json:"success"`
	Post    *domain.Post `json:"post"`
	created bool
}

func (p postSaved) StatusCode() int {
	if p.created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h *PostHandler) MountAPI(r ez.Routes) {
	ez.RegisterAction(r.Public, ez.Action[listPostsQ, []domain.Post]{
		Method: http.MethodGet, Path: "/posts", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listPostsQ) ([]domain.Post, error) {
			return h.content.ListPosts(c.Request.Context(), in.Query)
		},
	})

	ez.RegisterAction(r.Public, ez.Action[struct{}, *domain.Post]{
		Method: http.MethodGet, Path: "/posts/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Post, error) {
			return h.content.GetPost(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(r.Authed, ez.Action[struct{}, []domain.Post]{
		Method: http.MethodGet, Path: "/my-posts", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Post, error) {
			u, _ := mdw.CurrentUser(c)
			return h.content.ListUserPosts(c.Request.Context(), u)
		},
	})

	save := func(c *gin.Context, in *service.PostInput) (postSaved, error) {
		u, _ := mdw.CurrentUser(c)
		p, created, err := h.content.SavePost(c.Request.Context(), *in, u)
		if err != nil {
			return postSaved{}, err
		}
		return postSaved{Success: true, Post: p, created: created}, nil
	}
	ez.RegisterAction(r.Authed, ez.Action[service.PostInput, postSaved]{
		Method: http.MethodPost, Path: "/posts", Binder: ez.BindJSON, Handler: save,
	})
	ez.RegisterAction(r.Authed, ez.Action[service.PostInput, postSaved]{
		Method: http.MethodPut, Path: "/posts/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.PostInput) (postSaved, error) {
			in.ID = c.Param("id")
			return save(c, in)
		},
	})

	ez.RegisterAction(r.Authed, ez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete, Path: "/posts/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			u, _ := mdw.CurrentUser(c)
			if err := h.content.DeletePost(c.Request.Context(), c.Param("id"), u); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Success: true}, nil
		},
	})
}
