package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/articles/services"
	"github.com/cppla/articles/utils"
)

// ArticleController serves the /articles resource.
type ArticleController struct {
	articles *services.ArticleService
}

// NewArticleController creates a new ArticleController instance.
func NewArticleController(articles *services.ArticleService) *ArticleController {
	return &ArticleController{articles: articles}
}

// ListArticles returns published articles, newest first.
func (a *ArticleController) ListArticles(ctx *gin.Context) {
	list, err := a.articles.ListPublished(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusOK, list)
}

func (a *ArticleController) GetArticle(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		utils.Errors(ctx, http.StatusNotFound, msgArticleNotFound)
		return
	}
	article, err := a.articles.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusOK, article)
}

func (a *ArticleController) CreateArticle(ctx *gin.Context) {
	var req services.ArticleInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Errors(ctx, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	article, err := a.articles.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, article)
}

// UpdateArticle applies a partial update; omitted fields keep their stored values.
func (a *ArticleController) UpdateArticle(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		utils.Errors(ctx, http.StatusNotFound, msgArticleNotFound)
		return
	}
	var req services.ArticleInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Errors(ctx, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	article, err := a.articles.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusOK, article)
}

// DeleteArticle removes the article and its comments.
func (a *ArticleController) DeleteArticle(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		utils.Errors(ctx, http.StatusNotFound, msgArticleNotFound)
		return
	}
	if err := a.articles.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.NoContent(ctx)
}
