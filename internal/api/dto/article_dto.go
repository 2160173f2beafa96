package dto

import (
	"time"

	"github.com/spec-kit/article-service/internal/domain"
)

// ArticleRequest payload for create and update.
type ArticleRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	URL     string   `json:"url" validate:"required,max=200,excludesall=/?#"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"max=20,dive,max=50"`
	InHome  *bool    `json:"in_home"`
}

// CommentRequest payload for anonymous reader comments.
type CommentRequest struct {
	ArticleID string `json:"article_id" validate:"required,uuid"`
	Author    string `json:"author" validate:"required,max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
	Content   string `json:"content" validate:"required,max=5000"`
}

// ArticleResponse is an article as returned by the API. Comments are present
// only on single-article reads.
type ArticleResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	URL       string            `json:"url"`
	Content   string            `json:"content"`
	Tags      []string          `json:"tags"`
	InHome    bool              `json:"in_home"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Comments  []CommentResponse `json:"comments,omitempty"`
}

// CommentResponse omits the commenter's email.
type CommentResponse struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewArticleResponse maps an article, including any loaded comments.
func NewArticleResponse(a *domain.Article) ArticleResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		URL:       a.URL,
		Content:   a.Content,
		Tags:      tags,
		InHome:    a.InHome,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Comments != nil {
		resp.Comments = make([]CommentResponse, 0, len(a.Comments))
		for i := range a.Comments {
			resp.Comments = append(resp.Comments, NewCommentResponse(&a.Comments[i]))
		}
	}
	return resp
}

// NewCommentResponse maps a comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		ArticleID: c.ArticleID,
		Author:    c.Author,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
