package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the data payload of a successful JSON reply.
type Response map[string]interface{}

// Error codes carried in JSON error replies.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// Success writes {"code":0,"data":...}.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes {"code":code,"message":msg} with httpStatus.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// ValidationFailed writes a 400 reply listing each field error.
func ValidationFailed(c *gin.Context, ve *ValidationError) {
	fields := make(map[string]string, len(ve.Errors))
	for _, fe := range ve.Errors {
		key := fe.Field
		if key == "" {
			key = "__all__"
		}
		fields[key] = ve.Field(fe.Field)
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    CodeInvalidParam,
		"message": ve.Error(),
		"fields":  fields,
	})
}
