// Package services applies request input to articles and comments: it merges
// partial updates onto the stored state, sanitizes text, validates the
// resulting entity and hands it to the repositories.
package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/articles/models"
	"github.com/cppla/articles/repository"
	"github.com/cppla/articles/utils"
	"github.com/cppla/articles/validation"
)

// ArticleInput carries the writable article fields. An omitted field is left
// as it is; on create that means the model default. A null field counts as
// blank, so a null status fails validation and a null published_at clears it.
type ArticleInput struct {
	Title       Field `json:"title"`
	Body        Field `json:"body"`
	Status      Field `json:"status"`
	PublishedAt Field `json:"published_at"`
}

type ArticleService struct {
	articles  repository.ArticleRepository
	validator *validation.Validator
}

func NewArticleService(articles repository.ArticleRepository, v *validation.Validator) *ArticleService {
	return &ArticleService{articles: articles, validator: v}
}

// ListPublished returns published articles, newest first.
func (s *ArticleService) ListPublished(ctx context.Context) ([]models.Article, error) {
	return s.articles.ListByStatus(ctx, models.StatusPublished)
}

func (s *ArticleService) Get(ctx context.Context, id uint) (*models.Article, error) {
	return s.articles.FindByID(ctx, id)
}

func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (*models.Article, error) {
	article := models.NewArticle()
	if err := s.apply(&article, in); err != nil {
		return nil, err
	}
	if err := s.articles.Create(ctx, &article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	utils.Logger.Info("article created",
		zap.Uint("article_id", article.ID),
		zap.String("status", article.Status.String()))
	return &article, nil
}

// Update merges in onto the stored article and validates the merged state,
// so a status-only change is still checked against the stored published_at.
func (s *ArticleService) Update(ctx context.Context, id uint, in ArticleInput) (*models.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(article, in); err != nil {
		return nil, err
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("update article %d: %w", id, err)
	}
	return article, nil
}

// Delete removes the article together with its comments.
func (s *ArticleService) Delete(ctx context.Context, id uint) error {
	removed, err := s.articles.DeleteCascade(ctx, id)
	if err != nil {
		return err
	}
	utils.Logger.Info("article deleted",
		zap.Uint("article_id", id),
		zap.Int64("comments_removed", removed))
	return nil
}

// apply writes in onto a and returns the validation failure for the result,
// or nil when the result is valid.
func (s *ArticleService) apply(a *models.Article, in ArticleInput) error {
	if in.Title.Set {
		a.Title = utils.Sanitize(in.Title.Value)
	}
	if in.Body.Set {
		a.Body = utils.Sanitize(in.Body.Value)
	}
	if in.Status.Set {
		if st, ok := models.ParseArticleStatus(in.Status.Value); ok {
			a.Status = st
		} else {
			a.Status = models.StatusInvalid
		}
	}

	parseErrs := validation.NewErrors()
	if in.PublishedAt.Set {
		ts, err := parsePublishedAt(in.PublishedAt.Value)
		if err != nil {
			parseErrs.Add("published_at", validation.MsgPublishedAtFormat)
		} else {
			a.PublishedAt = ts
		}
	}

	errs := s.validator.Article(a)
	if !parseErrs.Empty() {
		// an unparseable timestamp replaces whatever the rules said about the field
		errs = errs.Without("published_at")
		errs.Merge(parseErrs)
	}
	return errs.OrNil()
}

// parsePublishedAt reads an RFC3339 timestamp. The empty string clears it.
func parsePublishedAt(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	ts = ts.UTC()
	return &ts, nil
}
