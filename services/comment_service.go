package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cppla/articles/models"
	"github.com/cppla/articles/repository"
	"github.com/cppla/articles/utils"
	"github.com/cppla/articles/validation"
)

// CommentInput carries the writable comment fields. Omitted and null fields
// are both blank.
type CommentInput struct {
	AuthorName Field `json:"author_name"`
	Body       Field `json:"body"`
}

// CommentService serves comments nested under an article. Every call first
// resolves the addressed article, so an unknown article is reported as
// repository.ErrArticleNotFound.
type CommentService struct {
	articles  repository.ArticleRepository
	comments  repository.CommentRepository
	validator *validation.Validator
}

func NewCommentService(articles repository.ArticleRepository, comments repository.CommentRepository, v *validation.Validator) *CommentService {
	return &CommentService{articles: articles, comments: comments, validator: v}
}

func (s *CommentService) ListForArticle(ctx context.Context, articleID uint) ([]models.Comment, error) {
	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return nil, err
	}
	return s.comments.ListByArticle(ctx, articleID)
}

func (s *CommentService) Create(ctx context.Context, articleID uint, in CommentInput) (*models.Comment, error) {
	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ArticleID:  articleID,
		AuthorName: utils.Sanitize(in.AuthorName.Value),
		Body:       utils.Sanitize(in.Body.Value),
	}
	if err := s.validator.Comment(&comment).OrNil(); err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, &comment); err != nil {
		// the article went away between the lookup and the insert
		if errors.Is(err, repository.ErrArticleNotFound) {
			errs := validation.NewErrors()
			errs.Add("article", validation.MsgArticleMissing)
			return nil, errs
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	utils.Logger.Info("comment created",
		zap.Uint("article_id", articleID),
		zap.Uint("comment_id", comment.ID))
	return &comment, nil
}

// Delete removes a comment of the article. A comment that exists under a
// different article is reported as repository.ErrCommentNotFound.
func (s *CommentService) Delete(ctx context.Context, articleID, id uint) error {
	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return err
	}
	comment, err := s.comments.FindInArticle(ctx, articleID, id)
	if err != nil {
		return err
	}
	if err := s.comments.DeleteInArticle(ctx, articleID, comment.ID); err != nil {
		return err
	}
	utils.Logger.Info("comment deleted",
		zap.Uint("article_id", articleID),
		zap.Uint("comment_id", comment.ID))
	return nil
}
