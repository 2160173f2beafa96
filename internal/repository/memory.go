package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/article-service/internal/domain"
)

// MemoryUserRepository keeps accounts in process memory. It backs the service
// when no Postgres DSN is configured and is used by tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository returns an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return ErrDuplicate
	}
	user.ID = uuid.NewString()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if r.emailTaken(user.Email, user.ID) {
		return ErrDuplicate
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.Role = user.Role
	stored.UpdatedAt = timeNow()
	r.users[user.ID] = stored
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.PasswordHash = passwordHash
	stored.UpdatedAt = timeNow()
	r.users[id] = stored
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryUserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		u := user
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryUserRepository) emailTaken(email, exceptID string) bool {
	for id, user := range r.users {
		if id != exceptID && strings.EqualFold(user.Email, email) {
			return true
		}
	}
	return false
}

// MemoryArticleRepository keeps articles and comments in process memory.
type MemoryArticleRepository struct {
	mu       sync.RWMutex
	articles map[string]domain.Article
	comments map[string][]domain.Comment
}

// NewMemoryArticleRepository returns an empty store.
func NewMemoryArticleRepository() *MemoryArticleRepository {
	return &MemoryArticleRepository{
		articles: make(map[string]domain.Article),
		comments: make(map[string][]domain.Comment),
	}
}

func (r *MemoryArticleRepository) Create(_ context.Context, article *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.urlTaken(article.URL, "") {
		return ErrDuplicate
	}
	article.ID = uuid.NewString()
	r.articles[article.ID] = cloneArticle(*article)
	return nil
}

func (r *MemoryArticleRepository) Update(_ context.Context, article *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.articles[article.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if r.urlTaken(article.URL, article.ID) {
		return ErrDuplicate
	}
	article.CreatedAt = stored.CreatedAt
	article.UpdatedAt = timeNow()
	r.articles[article.ID] = cloneArticle(*article)
	return nil
}

func (r *MemoryArticleRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.articles, id)
	delete(r.comments, id)
	return nil
}

func (r *MemoryArticleRepository) GetByID(_ context.Context, id string) (*domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	article, ok := r.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	a := cloneArticle(article)
	return &a, nil
}

func (r *MemoryArticleRepository) GetByURL(_ context.Context, url string) (*domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, article := range r.articles {
		if article.URL == url {
			a := cloneArticle(article)
			a.Comments = append([]domain.Comment{}, r.comments[a.ID]...)
			return &a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryArticleRepository) List(_ context.Context, homeOnly bool) ([]domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Article, 0, len(r.articles))
	for _, article := range r.articles {
		if homeOnly && !article.InHome {
			continue
		}
		out = append(out, cloneArticle(article))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryArticleRepository) ToggleHome(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	article, ok := r.articles[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	article.InHome = !article.InHome
	article.UpdatedAt = timeNow()
	r.articles[id] = article
	return article.InHome, nil
}

func (r *MemoryArticleRepository) AddComment(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.articles[comment.ArticleID]; !ok {
		return pgx.ErrNoRows
	}
	r.comments[comment.ArticleID] = append(r.comments[comment.ArticleID], *comment)
	return nil
}

func (r *MemoryArticleRepository) DeleteComment(_ context.Context, articleID, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comments := r.comments[articleID]
	for i, c := range comments {
		if c.ID == commentID {
			r.comments[articleID] = append(comments[:i:i], comments[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *MemoryArticleRepository) urlTaken(url, exceptID string) bool {
	for id, article := range r.articles {
		if id != exceptID && article.URL == url {
			return true
		}
	}
	return false
}

func cloneArticle(a domain.Article) domain.Article {
	a.Tags = append([]string{}, a.Tags...)
	a.Comments = nil
	return a
}

// timeNow is the store clock.
var timeNow = func() time.Time { return time.Now().UTC() }

var (
	_ UserRepository    = (*MemoryUserRepository)(nil)
	_ ArticleRepository = (*MemoryArticleRepository)(nil)
)
