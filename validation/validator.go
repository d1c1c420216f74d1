// Package validation holds the article and comment write rules. Every rule is
// evaluated against the full proposed state of an entity and all violations
// are collected into a single field-keyed Errors value.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/cppla/articles/models"
)

const (
	MsgTitleBlank        = "タイトルを入力してください"
	MsgArticleBodyBlank  = "本文を入力してください"
	MsgStatusBlank       = "ステータスを入力してください"
	MsgPublishedAtBlank  = "公開日時を入力してください"
	MsgPublishedAtFormat = "公開日時の形式が正しくありません"
	MsgAuthorNameBlank   = "投稿者名を入力してください"
	MsgCommentBodyBlank  = "コメント本文を入力してください"
	MsgArticleMissing    = "記事が存在しません"
)

func MsgTitleTooLong(max int) string {
	return fmt.Sprintf("タイトルは%d文字以内で入力してください", max)
}

func MsgAuthorNameLength(max int) string {
	return fmt.Sprintf("投稿者名は%d文字以内で入力してください", max)
}

// Limits are the configurable length bounds.
type Limits struct {
	TitleMax      int
	AuthorNameMax int
}

func DefaultLimits() Limits {
	return Limits{TitleMax: 255, AuthorNameMax: 50}
}

// fieldRule checks one attribute with a validator tag chain. The chain stops
// at the first failing tag, so a blank value never also reports its length.
type fieldRule[T any] struct {
	field    string
	value    func(*T) any
	tag      string
	messages map[string]string
}

// crossRule inspects the resolved entity after the field rules ran.
type crossRule[T any] func(*T, *Errors)

// Validator evaluates the article and comment rule tables.
type Validator struct {
	validate     *validator.Validate
	limits       Limits
	article      []fieldRule[models.Article]
	articleCross []crossRule[models.Article]
	comment      []fieldRule[models.Comment]
}

// New builds a Validator for the given limits. Non-positive limits fall back
// to the defaults.
func New(limits Limits) *Validator {
	def := DefaultLimits()
	if limits.TitleMax <= 0 {
		limits.TitleMax = def.TitleMax
	}
	if limits.AuthorNameMax <= 0 {
		limits.AuthorNameMax = def.AuthorNameMax
	}

	v := validator.New()
	// registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("article_status", func(fl validator.FieldLevel) bool {
		return models.ArticleStatus(fl.Field().Int()).Valid()
	})

	return &Validator{
		validate: v,
		limits:   limits,
		article: []fieldRule[models.Article]{
			{
				field: "title",
				value: func(a *models.Article) any { return a.Title },
				tag:   fmt.Sprintf("notblank,max=%d", limits.TitleMax),
				messages: map[string]string{
					"notblank": MsgTitleBlank,
					"max":      MsgTitleTooLong(limits.TitleMax),
				},
			},
			{
				field:    "body",
				value:    func(a *models.Article) any { return a.Body },
				tag:      "notblank",
				messages: map[string]string{"notblank": MsgArticleBodyBlank},
			},
			{
				field:    "status",
				value:    func(a *models.Article) any { return a.Status },
				tag:      "article_status",
				messages: map[string]string{"article_status": MsgStatusBlank},
			},
		},
		articleCross: []crossRule[models.Article]{
			publishedAtRequiredWhenPublished,
		},
		comment: []fieldRule[models.Comment]{
			{
				field: "author_name",
				value: func(c *models.Comment) any { return c.AuthorName },
				tag:   fmt.Sprintf("notblank,min=1,max=%d", limits.AuthorNameMax),
				messages: map[string]string{
					"notblank": MsgAuthorNameBlank,
					"min":      MsgAuthorNameLength(limits.AuthorNameMax),
					"max":      MsgAuthorNameLength(limits.AuthorNameMax),
				},
			},
			{
				field:    "body",
				value:    func(c *models.Comment) any { return c.Body },
				tag:      "notblank",
				messages: map[string]string{"notblank": MsgCommentBodyBlank},
			},
			{
				field:    "article",
				value:    func(c *models.Comment) any { return c.ArticleID },
				tag:      "required",
				messages: map[string]string{"required": MsgArticleMissing},
			},
		},
	}
}

// Article returns every violated rule for the proposed article state. The
// result is empty, not nil, when the article is valid.
func (v *Validator) Article(a *models.Article) *Errors {
	errs := NewErrors()
	runFieldRules(v.validate, v.article, a, errs)
	for _, rule := range v.articleCross {
		rule(a, errs)
	}
	return errs
}

// Comment returns every violated rule for the proposed comment state.
func (v *Validator) Comment(c *models.Comment) *Errors {
	errs := NewErrors()
	runFieldRules(v.validate, v.comment, c, errs)
	return errs
}

func publishedAtRequiredWhenPublished(a *models.Article, errs *Errors) {
	if a.Status.IsPublished() && (a.PublishedAt == nil || a.PublishedAt.IsZero()) {
		errs.Add("published_at", MsgPublishedAtBlank)
	}
}

func runFieldRules[T any](v *validator.Validate, rules []fieldRule[T], target *T, errs *Errors) {
	for _, rule := range rules {
		err := v.Var(rule.value(target), rule.tag)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			errs.Add(rule.field, err.Error())
			continue
		}
		tag := fieldErrs[0].Tag()
		msg, ok := rule.messages[tag]
		if !ok {
			msg = fmt.Sprintf("failed %s validation", tag)
		}
		errs.Add(rule.field, msg)
	}
}
