package service

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/article-service/internal/repository"
	apperrors "github.com/spec-kit/article-service/pkg/util/errorutil"
)

func notFound(resource string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

func conflict(message string, err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict(message, nil)
	}
	return err
}
