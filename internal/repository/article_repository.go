package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/article-service/internal/domain"
)

// ArticleRepository manages articles and their comments.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	GetByURL(ctx context.Context, url string) (*domain.Article, error)
	List(ctx context.Context, homeOnly bool) ([]domain.Article, error)
	ToggleHome(ctx context.Context, id string) (bool, error)
	AddComment(ctx context.Context, comment *domain.Comment) error
	DeleteComment(ctx context.Context, articleID, commentID string) error
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository builds the repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `id, title, url, content, tags, in_home, created_at, updated_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (title, url, content, tags, in_home, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		article.Title,
		article.URL,
		article.Content,
		article.Tags,
		article.InHome,
		article.CreatedAt,
		article.UpdatedAt,
	).Scan(&article.ID)
	return mapWriteError(err)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles SET title=$1, url=$2, content=$3, tags=$4, in_home=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		article.Title,
		article.URL,
		article.Content,
		article.Tags,
		article.InHome,
		article.ID,
	).Scan(&article.CreatedAt, &article.UpdatedAt)
	return mapWriteError(err)
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id=$1`
	article, err := scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return article, nil
}

func (r *articleRepository) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE url=$1`
	article, err := scanArticle(r.pool.QueryRow(ctx, query, url))
	if err != nil {
		return nil, err
	}

	comments, err := r.listComments(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	article.Comments = comments
	return article, nil
}

func (r *articleRepository) List(ctx context.Context, homeOnly bool) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles`
	if homeOnly {
		query += ` WHERE in_home = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *article)
	}
	return result, rows.Err()
}

func (r *articleRepository) ToggleHome(ctx context.Context, id string) (bool, error) {
	const query = `
        UPDATE articles SET in_home = NOT in_home, updated_at=NOW()
        WHERE id=$1
        RETURNING in_home`
	var inHome bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&inHome); err != nil {
		return false, err
	}
	return inHome, nil
}

func (r *articleRepository) AddComment(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO article_comments (id, article_id, author, email, content, created_at)
        SELECT $1,$2,$3,$4,$5,$6
        WHERE EXISTS (SELECT 1 FROM articles WHERE id=$2)`
	cmd, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.ArticleID,
		comment.Author,
		comment.Email,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) DeleteComment(ctx context.Context, articleID, commentID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM article_comments WHERE article_id=$1 AND id=$2`, articleID, commentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) listComments(ctx context.Context, articleID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, article_id, author, email, content, created_at
        FROM article_comments WHERE article_id=$1
        ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.Author, &c.Email, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var a domain.Article
	if err := row.Scan(&a.ID, &a.Title, &a.URL, &a.Content, &a.Tags, &a.InHome, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return &a, nil
}
