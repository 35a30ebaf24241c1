package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"saas-api/internal/domain/access"
	"saas-api/internal/testutil"

	"gorm.io/gorm"
)

var admin = access.AuthenticatedUser{ID: 1, Email: "admin@example.com", IsAdmin: true}

// seed inserts n records; record i (1-based) is i minutes after base, so
// record n is the newest.
func seed(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		fb := Feedback{
			Content:   fmt.Sprintf("feedback %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&fb).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func contents(items []Feedback) []string {
	out := make([]string, len(items))
	for i, f := range items {
		out[i] = f.Content
	}
	return out
}

func TestListForAdminSecondPage(t *testing.T) {
	db := testutil.OpenDB(t, &Feedback{})
	seed(t, db, 12)

	page, err := ListForAdmin(context.Background(), db, admin, 2, 5)
	if err != nil {
		t.Fatalf("ListForAdmin: %v", err)
	}

	if page.TotalCount != 12 {
		t.Errorf("TotalCount = %d, want 12", page.TotalCount)
	}
	want := []string{"feedback 7", "feedback 6", "feedback 5", "feedback 4", "feedback 3"}
	got := contents(page.Feedback)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("page 2 = %v, want %v", got, want)
	}
	if page.TotalPages() != 3 {
		t.Errorf("TotalPages = %d, want 3", page.TotalPages())
	}
}

func TestListForAdminOrderingAndLimit(t *testing.T) {
	db := testutil.OpenDB(t, &Feedback{})
	seed(t, db, 7)

	for _, size := range []int{1, 3, 7, 10} {
		page, err := ListForAdmin(context.Background(), db, admin, 1, size)
		if err != nil {
			t.Fatalf("ListForAdmin(size=%d): %v", size, err)
		}
		if len(page.Feedback) > size {
			t.Errorf("size=%d returned %d records", size, len(page.Feedback))
		}
		if page.TotalCount != 7 {
			t.Errorf("size=%d TotalCount = %d, want 7", size, page.TotalCount)
		}
		for i := 1; i < len(page.Feedback); i++ {
			if page.Feedback[i].CreatedAt.After(page.Feedback[i-1].CreatedAt) {
				t.Errorf("size=%d not newest first at index %d", size, i)
			}
		}
	}
}

func TestListForAdminBeyondLastPage(t *testing.T) {
	db := testutil.OpenDB(t, &Feedback{})
	seed(t, db, 4)

	page, err := ListForAdmin(context.Background(), db, admin, 9, 5)
	if err != nil {
		t.Fatalf("ListForAdmin: %v", err)
	}
	if len(page.Feedback) != 0 {
		t.Errorf("expected empty page, got %d records", len(page.Feedback))
	}
	if page.Feedback == nil {
		t.Error("empty page should be an empty slice, not nil")
	}
	if page.TotalCount != 4 {
		t.Errorf("TotalCount = %d, want 4", page.TotalCount)
	}
}

func TestListForAdminRejectsNonAdmins(t *testing.T) {
	db := testutil.OpenDB(t, &Feedback{})
	seed(t, db, 3)

	for _, p := range []access.Principal{
		nil,
		access.Anonymous{},
		access.AuthenticatedUser{ID: 5, Email: "user@example.com"},
	} {
		page, err := ListForAdmin(context.Background(), db, p, 1, 10)
		if !errors.Is(err, access.ErrUnauthorized) {
			t.Errorf("principal %#v: error = %v, want ErrUnauthorized", p, err)
		}
		if len(page.Feedback) != 0 || page.TotalCount != 0 {
			t.Errorf("principal %#v: leaked data %+v", p, page)
		}
	}
}

func TestListForAdminValidatesPagination(t *testing.T) {
	db := testutil.OpenDB(t, &Feedback{})

	cases := []struct{ page, size int }{
		{0, 10}, {-1, 10}, {1, 0}, {1, -5}, {1, MaxPageSize + 1},
	}
	for _, c := range cases {
		_, err := ListForAdmin(context.Background(), db, admin, c.page, c.size)
		if !errors.Is(err, ErrInvalidPagination) {
			t.Errorf("page=%d size=%d: error = %v, want ErrInvalidPagination", c.page, c.size, err)
		}
	}
}

func TestCreate(t *testing.T) {
	db := testutil.OpenDB(t, &Feedback{})

	before := time.Now().UTC().Add(-time.Second)
	fb, err := Create(context.Background(), db, "  love the app  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if fb.ID == "" {
		t.Error("expected generated id")
	}
	if fb.Content != "love the app" {
		t.Errorf("Content = %q", fb.Content)
	}
	if fb.CreatedAt.Before(before) {
		t.Errorf("CreatedAt %v not server assigned", fb.CreatedAt)
	}

	page, err := ListForAdmin(context.Background(), db, admin, 1, 10)
	if err != nil {
		t.Fatalf("ListForAdmin: %v", err)
	}
	if page.TotalCount != 1 || page.Feedback[0].ID != fb.ID {
		t.Errorf("created record not listed: %+v", page)
	}
}

func TestCreateValidation(t *testing.T) {
	db := testutil.OpenDB(t, &Feedback{})

	if _, err := Create(context.Background(), db, "   "); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("blank content: error = %v, want ErrEmptyContent", err)
	}
	long := strings.Repeat("é", MaxContentLength+1)
	if _, err := Create(context.Background(), db, long); !errors.Is(err, ErrContentTooLong) {
		t.Errorf("long content: error = %v, want ErrContentTooLong", err)
	}
}

func TestCreatePersistenceFailure(t *testing.T) {
	// no migration: the insert fails
	db := testutil.OpenDB(t)

	_, err := Create(context.Background(), db, "hello")
	if !errors.Is(err, ErrCreateFailed) {
		t.Errorf("error = %v, want ErrCreateFailed", err)
	}
}
