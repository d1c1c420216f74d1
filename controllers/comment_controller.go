package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/articles/services"
	"github.com/cppla/articles/utils"
)

// CommentController serves comments nested under /articles/:id.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

func (c *CommentController) ListComments(ctx *gin.Context) {
	articleID, ok := parseID(ctx, "id")
	if !ok {
		utils.Errors(ctx, http.StatusNotFound, msgArticleNotFound)
		return
	}
	list, err := c.comments.ListForArticle(ctx.Request.Context(), articleID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusOK, list)
}

func (c *CommentController) CreateComment(ctx *gin.Context) {
	articleID, ok := parseID(ctx, "id")
	if !ok {
		utils.Errors(ctx, http.StatusNotFound, msgArticleNotFound)
		return
	}
	var req services.CommentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Errors(ctx, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	comment, err := c.comments.Create(ctx.Request.Context(), articleID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, comment)
}

// DeleteComment only removes a comment that belongs to the addressed article.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	articleID, ok := parseID(ctx, "id")
	if !ok {
		utils.Errors(ctx, http.StatusNotFound, msgArticleNotFound)
		return
	}
	commentID, ok := parseID(ctx, "comment_id")
	if !ok {
		utils.Errors(ctx, http.StatusNotFound, msgCommentNotFound)
		return
	}
	if err := c.comments.Delete(ctx.Request.Context(), articleID, commentID); err != nil {
		respondError(ctx, err)
		return
	}
	utils.NoContent(ctx)
}
