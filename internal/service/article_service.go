package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/article-service/internal/domain"
	"github.com/spec-kit/article-service/internal/events"
	"github.com/spec-kit/article-service/internal/repository"
	apperrors "github.com/spec-kit/article-service/pkg/util/errorutil"
)

const commentPreviewRunes = 80

// ArticleService manages articles and reader comments.
type ArticleService struct {
	articles repository.ArticleRepository
	events   events.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
}

// ArticleInput carries the editable fields of an article.
type ArticleInput struct {
	Title   string
	URL     string
	Content string
	Tags    []string
	// InHome is left unchanged on update when nil.
	InHome *bool
}

// CommentInput is an anonymous reader comment.
type CommentInput struct {
	ArticleID string
	Author    string
	Email     string
	Content   string
}

// NewArticleService builds the service.
func NewArticleService(articles repository.ArticleRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ArticleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleService{articles: articles, events: dispatcher, logger: logger, now: time.Now}
}

// List returns all articles, or only home-page ones.
func (s *ArticleService) List(ctx context.Context, homeOnly bool) ([]domain.Article, error) {
	return s.articles.List(ctx, homeOnly)
}

// GetByURL returns an article with its comments.
func (s *ArticleService) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	article, err := s.articles.GetByURL(ctx, url)
	if err != nil {
		return nil, notFound("article", err)
	}
	return article, nil
}

// Create stores a new article.
func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (*domain.Article, error) {
	now := s.now().UTC()
	article := &domain.Article{
		Title:     strings.TrimSpace(in.Title),
		URL:       strings.TrimSpace(in.URL),
		Content:   in.Content,
		Tags:      normalizeTags(in.Tags),
		InHome:    in.InHome != nil && *in.InHome,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, conflict("article url already exists", err)
	}
	s.logger.Info("article created", zap.String("article_id", article.ID), zap.String("url", article.URL))
	return article, nil
}

// Update replaces the editable fields of an article.
func (s *ArticleService) Update(ctx context.Context, id string, in ArticleInput) (*domain.Article, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("article", nil)
	}
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("article", err)
	}
	article.Title = strings.TrimSpace(in.Title)
	article.URL = strings.TrimSpace(in.URL)
	article.Content = in.Content
	article.Tags = normalizeTags(in.Tags)
	if in.InHome != nil {
		article.InHome = *in.InHome
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, conflict("article url already exists", notFound("article", err))
	}
	s.logger.Info("article updated", zap.String("article_id", article.ID), zap.String("url", article.URL))
	return article, nil
}

// Delete removes an article and its comments.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NewNotFound("article", nil)
	}
	return notFound("article", s.articles.Delete(ctx, id))
}

// ToggleHome flips the home-page flag and returns the new value.
func (s *ArticleService) ToggleHome(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, apperrors.NewNotFound("article", nil)
	}
	inHome, err := s.articles.ToggleHome(ctx, id)
	if err != nil {
		return false, notFound("article", err)
	}
	return inHome, nil
}

// AddComment attaches a reader comment to an article.
func (s *ArticleService) AddComment(ctx context.Context, in CommentInput) (*domain.Comment, error) {
	if !validID(in.ArticleID) {
		return nil, apperrors.NewNotFound("article", nil)
	}
	comment := &domain.Comment{
		ID:        uuid.NewString(),
		ArticleID: in.ArticleID,
		Author:    strings.TrimSpace(in.Author),
		Email:     normalizeEmail(in.Email),
		Content:   in.Content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.articles.AddComment(ctx, comment); err != nil {
		return nil, notFound("article", err)
	}

	if s.events != nil {
		event := events.New(events.EventCommentPosted, comment.ArticleID, events.Actor{}, events.CommentPostedPayload{
			ArticleID:   comment.ArticleID,
			CommentID:   comment.ID,
			Author:      comment.Author,
			BodyPreview: preview(comment.Content),
		})
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return comment, nil
}

// DeleteComment removes one comment from an article.
func (s *ArticleService) DeleteComment(ctx context.Context, articleID, commentID string) error {
	if !validID(articleID) || !validID(commentID) {
		return apperrors.NewNotFound("comment", nil)
	}
	return notFound("comment", s.articles.DeleteComment(ctx, articleID, commentID))
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= commentPreviewRunes {
		return content
	}
	return string([]rune(content)[:commentPreviewRunes]) + "..."
}
