package cli

import (
	"testing"

	"saas-api/internal/domain/users"
	"saas-api/internal/testutil"
)

func TestPromoteAdmin(t *testing.T) {
	db := testutil.OpenDB(t, &users.User{})
	u := users.User{Email: "ana@example.com"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := promoteAdmin(db, " ANA@example.com "); err != nil {
		t.Fatalf("promoteAdmin: %v", err)
	}
	var got users.User
	db.First(&got, u.ID)
	if !got.IsAdmin {
		t.Error("user should be admin")
	}

	if err := promoteAdmin(db, "nobody@example.com"); err == nil {
		t.Error("expected an error for an unknown email")
	}
}
