package response

import "net/http"

// CodeMsgMap holds the default message per status.
var CodeMsgMap = map[int]string{
	http.StatusBadRequest:            "Bad Request",
	http.StatusUnauthorized:          "Unauthorized",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Not Found",
	http.StatusConflict:              "Conflict",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusTooManyRequests:       "Too many requests, please try again later.",
	http.StatusInternalServerError:   "Internal Server Error",
	http.StatusServiceUnavailable:    "Server busy",
	http.StatusGatewayTimeout:        "Request timed out",
}
