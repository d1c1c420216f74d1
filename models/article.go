package models

import "time"

// Article is a piece of content moving through the draft/published/archived lifecycle.
type Article struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Body        string        `gorm:"type:text;not null" json:"body"`
	Status      ArticleStatus `gorm:"type:tinyint;not null;default:0;index" json:"status"`
	PublishedAt *time.Time    `json:"published_at"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Comments    []Comment     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// NewArticle returns an article in its initial draft state.
func NewArticle() Article {
	return Article{Status: StatusDraft}
}

func (a *Article) IsDraft() bool     { return a.Status.IsDraft() }
func (a *Article) IsPublished() bool { return a.Status.IsPublished() }
func (a *Article) IsArchived() bool  { return a.Status.IsArchived() }
