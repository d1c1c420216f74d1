// Package repository is the persistence boundary for articles and comments.
// Implementations keep two guarantees: a comment is only inserted while its
// article exists, and deleting an article removes its comments in the same
// atomic unit.
package repository

import (
	"context"
	"errors"

	"github.com/cppla/articles/models"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// ArticleRepository stores articles.
type ArticleRepository interface {
	Create(ctx context.Context, a *models.Article) error
	FindByID(ctx context.Context, id uint) (*models.Article, error)
	// ListByStatus returns articles in the given state, newest first.
	ListByStatus(ctx context.Context, status models.ArticleStatus) ([]models.Article, error)
	Update(ctx context.Context, a *models.Article) error
	// DeleteCascade removes the article and all of its comments atomically and
	// reports how many comments went with it.
	DeleteCascade(ctx context.Context, id uint) (int64, error)
}

// CommentRepository stores comments scoped to their article.
type CommentRepository interface {
	// Create inserts c after resolving c.ArticleID; ErrArticleNotFound when the
	// parent is gone.
	Create(ctx context.Context, c *models.Comment) error
	FindInArticle(ctx context.Context, articleID, id uint) (*models.Comment, error)
	// ListByArticle returns the article's comments, newest first.
	ListByArticle(ctx context.Context, articleID uint) ([]models.Comment, error)
	DeleteInArticle(ctx context.Context, articleID, id uint) error
}
