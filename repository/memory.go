package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cppla/articles/models"
)

// MemoryStore keeps articles and comments in process. It is single-instance
// only; one mutex serializes every operation, which gives the same
// parent-exists and cascade guarantees as the SQL store.
type MemoryStore struct {
	mu            sync.Mutex
	articles      map[uint]models.Article
	comments      map[uint]models.Comment
	nextArticleID uint
	nextCommentID uint
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles: map[uint]models.Article{},
		comments: map[uint]models.Comment{},
		now:      time.Now,
	}
}

// WithClock replaces the timestamp source; used by tests that assert ordering.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

func (s *MemoryStore) Articles() ArticleRepository { return memoryArticles{s} }
func (s *MemoryStore) Comments() CommentRepository { return memoryComments{s} }

type memoryArticles struct{ *MemoryStore }

func (r memoryArticles) Create(_ context.Context, a *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextArticleID++
	ts := r.now()
	a.ID = r.nextArticleID
	a.CreatedAt, a.UpdatedAt = ts, ts
	r.articles[a.ID] = cloneArticle(*a)
	return nil
}

func (r memoryArticles) FindByID(_ context.Context, id uint) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, ErrArticleNotFound
	}
	out := cloneArticle(a)
	return &out, nil
}

func (r memoryArticles) ListByStatus(_ context.Context, status models.ArticleStatus) ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Article, 0, len(r.articles))
	for _, a := range r.articles {
		if a.Status == status {
			out = append(out, cloneArticle(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (r memoryArticles) Update(_ context.Context, a *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.articles[a.ID]
	if !ok {
		return ErrArticleNotFound
	}
	stored.Title = a.Title
	stored.Body = a.Body
	stored.Status = a.Status
	stored.PublishedAt = a.PublishedAt
	stored.UpdatedAt = r.now()
	r.articles[a.ID] = cloneArticle(stored)
	a.CreatedAt, a.UpdatedAt = stored.CreatedAt, stored.UpdatedAt
	return nil
}

func (r memoryArticles) DeleteCascade(_ context.Context, id uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return 0, ErrArticleNotFound
	}
	var removed int64
	for cid, c := range r.comments {
		if c.ArticleID == id {
			delete(r.comments, cid)
			removed++
		}
	}
	delete(r.articles, id)
	return removed, nil
}

type memoryComments struct{ *MemoryStore }

func (r memoryComments) Create(_ context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[c.ArticleID]; !ok {
		return ErrArticleNotFound
	}
	r.nextCommentID++
	ts := r.now()
	c.ID = r.nextCommentID
	c.CreatedAt, c.UpdatedAt = ts, ts
	r.comments[c.ID] = *c
	return nil
}

func (r memoryComments) FindInArticle(_ context.Context, articleID, id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok || c.ArticleID != articleID {
		return nil, ErrCommentNotFound
	}
	return &c, nil
}

func (r memoryComments) ListByArticle(_ context.Context, articleID uint) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Comment, 0)
	for _, c := range r.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (r memoryComments) DeleteInArticle(_ context.Context, articleID, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok || c.ArticleID != articleID {
		return ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func newer(at time.Time, aid uint, bt time.Time, bid uint) bool {
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return aid > bid
}

func cloneArticle(a models.Article) models.Article {
	if a.PublishedAt != nil {
		t := *a.PublishedAt
		a.PublishedAt = &t
	}
	a.Comments = nil
	return a
}
