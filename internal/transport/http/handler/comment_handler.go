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

type CommentHandler struct {
	content *service.ContentService
}

func NewCommentHandler(c *service.ContentService) *CommentHandler { return &CommentHandler{content: c} }

type listCommentsQ struct {
	PostID string `form:"postId"`
}

func (h *CommentHandler) MountAPI(r ez.Routes) {
	ez.RegisterAction(r.Public, ez.Action[listCommentsQ, []domain.Comment]{
		Method: http.MethodGet, Path: "/comments", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listCommentsQ) ([]domain.Comment, error) {
			return h.content.ListComments(c.Request.Context(), in.PostID)
		},
	})

	ez.RegisterAction(r.Authed, ez.Action[service.CommentInput, *domain.Comment]{
		Method: http.MethodPost, Path: "/comments", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CommentInput) (*domain.Comment, error) {
			u, _ := mdw.CurrentUser(c)
			return h.content.CreateComment(c.Request.Context(), *in, u)
		},
	})

	ez.RegisterAction(r.Authed, ez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete, Path: "/comments/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			u, _ := mdw.CurrentUser(c)
			if err := h.content.DeleteComment(c.Request.Context(), c.Param("id"), u); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Success: true}, nil
		},
	})
}
