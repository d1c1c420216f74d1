package models

import "time"

// Comment is a reader reply owned by exactly one article.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ArticleID  uint      `gorm:"index;not null" json:"article_id"`
	AuthorName string    `gorm:"size:255;not null" json:"author_name"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
