package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// Respond writes data as the JSON body with the given status code.
func Respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, data)
}

// Errors aborts the request with the error envelope.
func Errors(ctx *gin.Context, status int, messages ...string) {
	if messages == nil {
		messages = []string{}
	}
	ctx.AbortWithStatusJSON(status, ErrorResponse{Errors: messages})
}

// NoContent answers 204 with an empty body.
func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}
