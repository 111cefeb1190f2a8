package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the uniform error body returned to the UI.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"error,omitempty"`
	Status  int    `json:"status"`
}

func (e *APIError) Error() string {
	if e.Code != "" && e.Code != e.Message {
		return e.Message + " (" + e.Code + ")"
	}
	return e.Message
}

func (e *APIError) Kind() Kind {
	return KindForStatus(e.Status)
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Status:  status,
	})
}

func Abort(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.Status, err)
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}
