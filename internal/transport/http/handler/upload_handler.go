package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"techzon-blog/internal/core/apperr"
	"techzon-blog/internal/service"
	"techzon-blog/internal/transport/http/ez"
	mdw "techzon-blog/internal/transport/http/middleware"
)

// UploadHandler is mounted only when object storage is configured.
type UploadHandler struct {
	images *service.ImageService
}

func NewUploadHandler(s *service.ImageService) *UploadHandler { return &UploadHandler{images: s} }

func (h *UploadHandler) Priority() int { return 200 }

func (h *UploadHandler) MountAPI(r ez.Routes) {
	ez.File(r.Authed, "/uploads/image", "image", http.StatusCreated,
		func(c *gin.Context, fh *multipart.FileHeader) (*service.UploadedImage, error) {
			u, _ := mdw.CurrentUser(c)
			f, err := fh.Open()
			if err != nil {
				return nil, apperr.Validation("Could not read image")
			}
			defer f.Close()
			return h.images.Upload(c.Request.Context(), u, f, fh.Size)
		})
}
