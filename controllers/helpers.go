package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/articles/middleware"
	"github.com/cppla/articles/repository"
	"github.com/cppla/articles/utils"
	"github.com/cppla/articles/validation"
)

const (
	msgInvalidPayload  = "invalid request payload"
	msgArticleNotFound = "article not found"
	msgCommentNotFound = "comment not found"
	msgInternal        = "internal server error"
)

// parseID reads a positive numeric path parameter.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto status codes. Anything unrecognised
// is logged and hidden behind a generic 500.
func respondError(ctx *gin.Context, err error) {
	var verrs *validation.Errors
	switch {
	case errors.As(err, &verrs):
		utils.Errors(ctx, http.StatusUnprocessableEntity, verrs.FullMessages()...)
	case errors.Is(err, repository.ErrArticleNotFound):
		utils.Errors(ctx, http.StatusNotFound, msgArticleNotFound)
	case errors.Is(err, repository.ErrCommentNotFound):
		utils.Errors(ctx, http.StatusNotFound, msgCommentNotFound)
	default:
		utils.Logger.Error("request failed",
			zap.Error(err),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(ctx)))
		utils.Errors(ctx, http.StatusInternalServerError, msgInternal)
	}
}
