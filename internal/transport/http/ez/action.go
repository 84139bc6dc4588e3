// Package ez registers gin handlers as typed actions with one error boundary.
package ez

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techzon-blog/internal/core/apperr"
	resp "techzon-blog/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // read c.Param yourself
)

// Statuser lets an output choose its success status.
type Statuser interface{ StatusCode() int }

// Action is one endpoint: I is bound from the request, O is written as JSON.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int // success status, default 200
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			var mbe *http.MaxBytesError
			if errors.As(bindErr, &mbe) {
				resp.Abort(c, http.StatusRequestEntityTooLarge, "")
				return
			}
			resp.Abort(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.Fail(c, err)
			return
		}
		status := a.Status
		if s, ok := any(out).(Statuser); ok {
			status = s.StatusCode()
		}
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}
	e.handle(a.Method, a.Path, h)
}

// File registers a multipart upload of a single file under field.
func File[O any](e EZ, path, field string, status int, h func(c *gin.Context, fh *multipart.FileHeader) (O, error)) {
	e.g.POST(path, func(c *gin.Context) {
		fh, err := c.FormFile(field)
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				resp.Abort(c, http.StatusRequestEntityTooLarge, "")
				return
			}
			resp.Abort(c, http.StatusBadRequest, "No "+field+" file uploaded")
			return
		}
		out, err := h(c, fh)
		if err != nil {
			e.Fail(c, err)
			return
		}
		c.JSON(status, out)
	})
}

// Fail maps err to its status and writes the error body. Causes of server
// errors are logged, never sent.
func (e EZ) Fail(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	msg := ""
	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg = ae.Msg
	}
	if errors.Is(err, context.DeadlineExceeded) {
		code, msg = http.StatusGatewayTimeout, ""
	}
	if code >= http.StatusInternalServerError {
		e.log.Error("request failed",
			zap.String("rid", c.GetString("X-Request-ID")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	resp.Abort(c, code, msg)
}

func (e EZ) handle(method, path string, h gin.HandlerFunc) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		e.g.GET(path, h)
	case http.MethodPut:
		e.g.PUT(path, h)
	case http.MethodDelete:
		e.g.DELETE(path, h)
	default:
		e.g.POST(path, h)
	}
}
