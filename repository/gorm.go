package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/articles/models"
)

const newestFirst = "created_at DESC, id DESC"

// GormStore implements both repositories on a gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Articles() ArticleRepository { return gormArticles{s} }
func (s *GormStore) Comments() CommentRepository { return gormComments{s} }

type gormArticles struct{ *GormStore }

func (r gormArticles) Create(ctx context.Context, a *models.Article) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (r gormArticles) FindByID(ctx context.Context, id uint) (*models.Article, error) {
	var a models.Article
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("load article %d: %w", id, err)
	}
	return &a, nil
}

func (r gormArticles) ListByStatus(ctx context.Context, status models.ArticleStatus) ([]models.Article, error) {
	articles := make([]models.Article, 0)
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order(newestFirst).
		Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("list %s articles: %w", status, err)
	}
	return articles, nil
}

// Update writes every user-settable column so the stored row matches the
// validated state, zero values included.
func (r gormArticles) Update(ctx context.Context, a *models.Article) error {
	if err := r.db.WithContext(ctx).
		Model(a).
		Select("Title", "Body", "Status", "PublishedAt", "UpdatedAt").
		Updates(a).Error; err != nil {
		return fmt.Errorf("update article %d: %w", a.ID, err)
	}
	return nil
}

func (r gormArticles) DeleteCascade(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// lock the parent so no comment can be attached while we cascade
		var parent models.Article
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&parent, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArticleNotFound
			}
			return fmt.Errorf("lock article %d: %w", id, err)
		}

		res := tx.Where("article_id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return fmt.Errorf("delete comments of article %d: %w", id, res.Error)
		}
		removed = res.RowsAffected

		res = tx.Delete(&models.Article{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete article %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrArticleNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

type gormComments struct{ *GormStore }

func (r gormComments) Create(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent models.Article
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Select("id").
			First(&parent, c.ArticleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArticleNotFound
			}
			return fmt.Errorf("resolve article %d: %w", c.ArticleID, err)
		}
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		return nil
	})
}

func (r gormComments) FindInArticle(ctx context.Context, articleID, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("load comment %d: %w", id, err)
	}
	return &c, nil
}

func (r gormComments) ListByArticle(ctx context.Context, articleID uint) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	if err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order(newestFirst).
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments of article %d: %w", articleID, err)
	}
	return comments, nil
}

func (r gormComments) DeleteInArticle(ctx context.Context, articleID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Delete(&models.Comment{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete comment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
