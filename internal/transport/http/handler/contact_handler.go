package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techzon-blog/internal/service"
	"techzon-blog/internal/transport/http/ez"
	resp "techzon-blog/internal/transport/http/response"
)

// ContactHandler serves the contact form and the newsletter signup.
type ContactHandler struct {
	contact *service.ContactService
}

func NewContactHandler(s *service.ContactService) *ContactHandler { return &ContactHandler{contact: s} }

func (h *ContactHandler) MountAPI(r ez.Routes) {
	ez.RegisterAction(r.Limited, ez.Action[service.ContactInput, resp.Message]{
		Method: http.MethodPost, Path: "/contact", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.ContactInput) (resp.Message, error) {
			if err := h.contact.Submit(c.Request.Context(), *in); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Success: true, Message: "Message sent successfully!"}, nil
		},
	})

	ez.RegisterAction(r.Limited, ez.Action[service.SubscribeInput, resp.Message]{
		Method: http.MethodPost, Path: "/newsletter", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.SubscribeInput) (resp.Message, error) {
			if err := h.contact.Subscribe(c.Request.Context(), *in); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Success: true, Message: "Subscribed successfully!"}, nil
		},
	})
}
