package service

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"techzon-blog/internal/core/apperr"
	"techzon-blog/internal/domain"
	"techzon-blog/internal/storage"
	"techzon-blog/pkg/utils"
)

const MaxImageBytes = 5 << 20

var allowedImages = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type ImageService struct {
	store      storage.ObjectStore
	publicBase string
	presignTTL time.Duration
}

// NewImageService serves URLs from publicBase when set, otherwise presigned GETs.
func NewImageService(store storage.ObjectStore, publicBase string, presignTTL time.Duration) *ImageService {
	if presignTTL <= 0 {
		presignTTL = 7 * 24 * time.Hour
	}
	return &ImageService{store: store, publicBase: strings.TrimRight(publicBase, "/"), presignTTL: presignTTL}
}

type UploadedImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *ImageService) Upload(ctx context.Context, u domain.SessionUser, r io.Reader, size int64) (*UploadedImage, error) {
	if size <= 0 {
		return nil, apperr.Validation("Image is empty")
	}
	if size > MaxImageBytes {
		return nil, apperr.Validation("Image must be 5MB or smaller")
	}
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperr.Validation("Could not read image")
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	if !mimetype.EqualsAny(mt.String(), allowedImages...) {
		return nil, apperr.Validation("Only JPEG, PNG, GIF and WebP images are allowed")
	}
	key := "posts/" + u.ID + "/" + utils.NewID() + mt.Extension()
	body := io.MultiReader(bytes.NewReader(head), r)
	if err := s.store.Put(ctx, key, body, size, mt.String()); err != nil {
		return nil, apperr.Internal("Failed to store image", err)
	}
	url, err := s.url(ctx, key)
	if err != nil {
		return nil, apperr.Internal("Failed to sign image url", err)
	}
	return &UploadedImage{Key: key, URL: url}, nil
}

func (s *ImageService) url(ctx context.Context, key string) (string, error) {
	if s.publicBase != "" {
		return s.publicBase + "/" + key, nil
	}
	return s.store.PresignGet(ctx, key, s.presignTTL)
}

// RemoveImage deletes the upload behind imageURL. URLs that do not name an
// object under the owner's prefix are left alone, so a post pointing at an
// external image or at someone else's upload never deletes anything.
func (s *ImageService) RemoveImage(ctx context.Context, ownerID, imageURL string) error {
	key, ok := ownedKey(ownerID, imageURL)
	if !ok {
		return nil
	}
	return s.store.Delete(ctx, key)
}

func ownedKey(ownerID, raw string) (string, bool) {
	if ownerID == "" || raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	p := "/" + strings.TrimPrefix(u.Path, "/")
	prefix := "posts/" + ownerID + "/"
	i := strings.Index(p, "/"+prefix)
	if i < 0 {
		return "", false
	}
	key := p[i+1:]
	name := strings.TrimPrefix(key, prefix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return key, true
}
