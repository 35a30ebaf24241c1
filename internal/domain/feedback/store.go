package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"saas-api/internal/domain/access"
	"saas-api/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	MaxPageSize      = 100
	MaxContentLength = 5000
)

var (
	ErrInvalidPagination = errors.New("page must be >= 1 and pageSize between 1 and 100")
	ErrEmptyContent      = errors.New("feedback content is required")
	ErrContentTooLong    = errors.New("feedback content is too long")
	ErrCreateFailed      = errors.New("failed to create feedback")
)

type Page struct {
	Feedback   []Feedback `json:"feedback"`
	TotalCount int64      `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
}

// TotalPages is ceil(TotalCount / PageSize).
func (p Page) TotalPages() int64 {
	if p.PageSize <= 0 {
		return 0
	}
	size := int64(p.PageSize)
	return (p.TotalCount + size - 1) / size
}

// ListForAdmin returns one page of feedback, newest first, together with the
// total number of feedback records.
//
// The page and the count are read concurrently without a shared transaction,
// so a record inserted between the two reads can show up in one result and
// not the other.
func ListForAdmin(ctx context.Context, db *gorm.DB, p access.Principal, page, pageSize int) (Page, error) {
	if err := access.RequireAdmin(p); err != nil {
		return Page{}, err
	}
	if page < 1 || pageSize < 1 || pageSize > MaxPageSize {
		return Page{}, ErrInvalidPagination
	}

	skip := (page - 1) * pageSize
	result := Page{Feedback: []Feedback{}, Page: page, PageSize: pageSize}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).
			Order("created_at DESC").
			Order("id DESC").
			Offset(skip).
			Limit(pageSize).
			Find(&result.Feedback).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&Feedback{}).Count(&result.TotalCount).Error
	})
	if err := g.Wait(); err != nil {
		return Page{}, fmt.Errorf("list feedback: %w", err)
	}

	return result, nil
}

// Create stores a new feedback record. Any caller may submit feedback.
// Content is trimmed first; empty or whitespace-only content fails with
// ErrEmptyContent and content longer than MaxContentLength runes fails with
// ErrContentTooLong. The trimmed text is stored as given, without escaping.
func Create(ctx context.Context, db *gorm.DB, content string) (*Feedback, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	fb := &Feedback{
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(fb).Error; err != nil {
		logger.Get().Error("feedback insert failed", zap.Error(err))
		return nil, ErrCreateFailed
	}
	return fb, nil
}
