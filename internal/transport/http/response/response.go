package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Err is the body of every failed request.
type Err struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error builds an error body; an empty msg falls back to the status default.
func Error(code int, msg string) Err {
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	if msg == "" {
		msg = http.StatusText(code)
	}
	return Err{Code: code, Message: msg}
}

// Abort writes the error body with code as the HTTP status and stops the chain.
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Error(code, msg))
}

// Message is the body of operations that only report an outcome.
type Message struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}
