package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/articles/models"
	"github.com/cppla/articles/repository"
	"github.com/cppla/articles/validation"
)

func newServices() (*ArticleService, *CommentService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	v := validation.New(validation.DefaultLimits())
	return NewArticleService(store.Articles(), v),
		NewCommentService(store.Articles(), store.Comments(), v),
		store
}

func validationErrors(t *testing.T, err error) *validation.Errors {
	t.Helper()
	var verrs *validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	return verrs
}

func TestArticleService_CreateDefaultsToDraft(t *testing.T) {
	articles, _, _ := newServices()
	a, err := articles.Create(context.Background(), ArticleInput{Title: Value("t"), Body: Value("b")})
	require.NoError(t, err)
	assert.True(t, a.IsDraft())
	assert.Nil(t, a.PublishedAt)
}

func TestArticleService_CreatePublished(t *testing.T) {
	articles, _, _ := newServices()
	ctx := context.Background()

	_, err := articles.Create(ctx, ArticleInput{Title: Value("t"), Body: Value("b"), Status: Value("published")})
	assert.Equal(t, []string{validation.MsgPublishedAtBlank}, validationErrors(t, err).On("published_at"))

	a, err := articles.Create(ctx, ArticleInput{
		Title: Value("t"), Body: Value("b"), Status: Value("published"), PublishedAt: Value("2024-05-01T18:00:00+09:00"),
	})
	require.NoError(t, err)
	assert.True(t, a.IsPublished())
	assert.Equal(t, "2024-05-01T09:00:00Z", a.PublishedAt.Format("2006-01-02T15:04:05Z07:00"))

	list, err := articles.ListPublished(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestArticleService_UpdateMergesOntoStoredState(t *testing.T) {
	articles, _, _ := newServices()
	ctx := context.Background()
	a, err := articles.Create(ctx, ArticleInput{Title: Value("t"), Body: Value("b")})
	require.NoError(t, err)

	// status alone cannot publish a draft without a date
	_, err = articles.Update(ctx, a.ID, ArticleInput{Status: Value("published")})
	validationErrors(t, err)

	stored, err := articles.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDraft())

	updated, err := articles.Update(ctx, a.ID, ArticleInput{Status: Value("published"), PublishedAt: Value("2024-01-01T00:00:00Z")})
	require.NoError(t, err)
	assert.True(t, updated.IsPublished())
	assert.Equal(t, "t", updated.Title)

	_, err = articles.Update(ctx, 999, ArticleInput{Title: Value("x")})
	assert.ErrorIs(t, err, repository.ErrArticleNotFound)
}

func TestArticleService_BadDateReplacesBlankMessage(t *testing.T) {
	articles, _, _ := newServices()
	_, err := articles.Create(context.Background(), ArticleInput{
		Title: Value(""), Body: Value("b"), Status: Value("published"), PublishedAt: Value("01/05/2024"),
	})
	verrs := validationErrors(t, err)
	assert.Equal(t, []string{"title", "published_at"}, verrs.Fields())
	assert.Equal(t, []string{validation.MsgPublishedAtFormat}, verrs.On("published_at"))
}

func TestArticleService_BadDateOnDraftStillFails(t *testing.T) {
	articles, _, _ := newServices()
	_, err := articles.Create(context.Background(), ArticleInput{Title: Value("t"), Body: Value("b"), PublishedAt: Value("soon")})
	assert.Equal(t, []string{"published_at"}, validationErrors(t, err).Fields())
}

func TestArticleService_TitleBoundary(t *testing.T) {
	articles, _, _ := newServices()
	ctx := context.Background()

	_, err := articles.Create(ctx, ArticleInput{Title: Value(strings.Repeat("あ", 255)), Body: Value("b")})
	require.NoError(t, err)

	_, err = articles.Create(ctx, ArticleInput{Title: Value(strings.Repeat("あ", 256)), Body: Value("b")})
	assert.Equal(t, []string{validation.MsgTitleTooLong(255)}, validationErrors(t, err).On("title"))
}

func TestArticleService_DeleteCascades(t *testing.T) {
	articles, comments, store := newServices()
	ctx := context.Background()
	a, err := articles.Create(ctx, ArticleInput{Title: Value("t"), Body: Value("b")})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := comments.Create(ctx, a.ID, CommentInput{AuthorName: Value("n"), Body: Value("c")})
		require.NoError(t, err)
	}

	require.NoError(t, articles.Delete(ctx, a.ID))
	left, err := store.Comments().ListByArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.ErrorIs(t, articles.Delete(ctx, a.ID), repository.ErrArticleNotFound)
}

func TestCommentService_AuthorNameBoundary(t *testing.T) {
	articles, comments, _ := newServices()
	ctx := context.Background()
	a, err := articles.Create(ctx, ArticleInput{Title: Value("t"), Body: Value("b")})
	require.NoError(t, err)

	tests := []struct {
		name   string
		author string
		ok     bool
	}{
		{"empty", "", false},
		{"one", "a", true},
		{"max", strings.Repeat("a", 50), true},
		{"max plus one", strings.Repeat("a", 51), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := comments.Create(ctx, a.ID, CommentInput{AuthorName: Value(tt.author), Body: Value("c")})
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, a.ID, c.ArticleID)
				return
			}
			assert.Equal(t, []string{"author_name"}, validationErrors(t, err).Fields())
		})
	}
}

func TestCommentService_ScopesToArticle(t *testing.T) {
	articles, comments, _ := newServices()
	ctx := context.Background()
	a1, _ := articles.Create(ctx, ArticleInput{Title: Value("a1"), Body: Value("b")})
	a2, _ := articles.Create(ctx, ArticleInput{Title: Value("a2"), Body: Value("b")})
	c, err := comments.Create(ctx, a1.ID, CommentInput{AuthorName: Value("n"), Body: Value("c")})
	require.NoError(t, err)

	list, err := comments.ListForArticle(ctx, a2.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, comments.Delete(ctx, a2.ID, c.ID), repository.ErrCommentNotFound)
	assert.ErrorIs(t, comments.Delete(ctx, 999, c.ID), repository.ErrArticleNotFound)
	_, err = comments.ListForArticle(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrArticleNotFound)
	_, err = comments.Create(ctx, 999, CommentInput{AuthorName: Value("n"), Body: Value("c")})
	assert.ErrorIs(t, err, repository.ErrArticleNotFound)
	require.NoError(t, comments.Delete(ctx, a1.ID, c.ID))
}

// vanishingComments simulates the parent being deleted between lookup and insert.
type vanishingComments struct {
	repository.CommentRepository
}

func (vanishingComments) Create(context.Context, *models.Comment) error {
	return repository.ErrArticleNotFound
}

func TestCommentService_ParentVanishesBeforeInsert(t *testing.T) {
	store := repository.NewMemoryStore()
	v := validation.New(validation.DefaultLimits())
	articles := NewArticleService(store.Articles(), v)
	comments := NewCommentService(store.Articles(), vanishingComments{store.Comments()}, v)
	ctx := context.Background()

	a, err := articles.Create(ctx, ArticleInput{Title: Value("t"), Body: Value("b")})
	require.NoError(t, err)

	_, err = comments.Create(ctx, a.ID, CommentInput{AuthorName: Value("n"), Body: Value("c")})
	verrs := validationErrors(t, err)
	assert.Equal(t, []string{"Article " + validation.MsgArticleMissing}, verrs.FullMessages())
}

// unresolvedComments reports every comment as missing and records deletes.
type unresolvedComments struct {
	repository.CommentRepository
	deletes *int
}

func (unresolvedComments) FindInArticle(context.Context, uint, uint) (*models.Comment, error) {
	return nil, repository.ErrCommentNotFound
}

func (r unresolvedComments) DeleteInArticle(context.Context, uint, uint) error {
	*r.deletes++
	return nil
}

func TestCommentService_DeleteResolvesCommentFirst(t *testing.T) {
	store := repository.NewMemoryStore()
	v := validation.New(validation.DefaultLimits())
	deletes := 0
	articles := NewArticleService(store.Articles(), v)
	comments := NewCommentService(store.Articles(), unresolvedComments{store.Comments(), &deletes}, v)
	ctx := context.Background()

	a, err := articles.Create(ctx, ArticleInput{Title: Value("t"), Body: Value("b")})
	require.NoError(t, err)

	assert.ErrorIs(t, comments.Delete(ctx, a.ID, 1), repository.ErrCommentNotFound)
	assert.Zero(t, deletes)
}

func TestArticleService_EntitiesCountAsTyped(t *testing.T) {
	articles, _, _ := newServices()
	ctx := context.Background()

	tests := []struct {
		name  string
		title string
		ok    bool
	}{
		{"ampersand at max", strings.Repeat("a", 254) + "&", true},
		{"apostrophe at max", "Jerry's" + strings.Repeat("a", 248), true},
		{"ampersand over max", strings.Repeat("a", 255) + "&", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := articles.Create(ctx, ArticleInput{Title: Value(tt.title), Body: Value("b")})
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.title, a.Title)
				return
			}
			assert.Equal(t, []string{validation.MsgTitleTooLong(255)}, validationErrors(t, err).On("title"))
		})
	}

	a, err := articles.Create(ctx, ArticleInput{Title: Value("Tom & Jerry's"), Body: Value(`<p>"quoted" & kept</p>`)})
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry's", a.Title)
	assert.Equal(t, `<p>"quoted" & kept</p>`, a.Body)
}

func TestCommentService_AuthorNameEntitiesCountAsTyped(t *testing.T) {
	articles, comments, _ := newServices()
	ctx := context.Background()
	a, err := articles.Create(ctx, ArticleInput{Title: Value("t"), Body: Value("b")})
	require.NoError(t, err)

	name := "O'Brien" + strings.Repeat("a", 43)
	c, err := comments.Create(ctx, a.ID, CommentInput{AuthorName: Value(name), Body: Value("Tom & Jerry")})
	require.NoError(t, err)
	assert.Equal(t, name, c.AuthorName)
	assert.Equal(t, "Tom & Jerry", c.Body)

	_, err = comments.Create(ctx, a.ID, CommentInput{AuthorName: Value(name + "&"), Body: Value("c")})
	assert.Equal(t, []string{"author_name"}, validationErrors(t, err).Fields())
}

func TestArticleService_NullFields(t *testing.T) {
	articles, _, _ := newServices()
	ctx := context.Background()

	_, err := articles.Create(ctx, ArticleInput{Title: Value("t"), Body: Value("b"), Status: Null()})
	assert.Equal(t, []string{validation.MsgStatusBlank}, validationErrors(t, err).On("status"))

	a, err := articles.Create(ctx, ArticleInput{
		Title: Value("t"), Body: Value("b"), PublishedAt: Value("2024-01-01T00:00:00Z"),
	})
	require.NoError(t, err)
	require.NotNil(t, a.PublishedAt)

	updated, err := articles.Update(ctx, a.ID, ArticleInput{PublishedAt: Null()})
	require.NoError(t, err)
	assert.Nil(t, updated.PublishedAt)
	assert.Equal(t, "t", updated.Title)

	_, err = articles.Update(ctx, a.ID, ArticleInput{Title: Null()})
	assert.Equal(t, []string{"title"}, validationErrors(t, err).Fields())
}
