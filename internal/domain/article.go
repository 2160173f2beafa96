package domain

import "time"

// Article is a published post. Comments are loaded only for single-article reads.
type Article struct {
	ID        string
	Title     string
	URL       string
	Content   string
	Tags      []string
	InHome    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Comments  []Comment
}

// Comment is a reader comment attached to an article.
type Comment struct {
	ID        string
	ArticleID string
	Author    string
	Email     string
	Content   string
	CreatedAt time.Time
}
