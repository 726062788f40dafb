package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/rewear/internal/model"
)

func mustUser(t *testing.T, database *sql.DB, email string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, email, email, "hash", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", email, err)
	}
	return u
}

func mustItem(t *testing.T, database *sql.DB, ownerID int64, title string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, ownerID, Listing{
		Title:     title,
		Category:  "tops",
		Size:      "M",
		Condition: model.ConditionGood,
	})
	if err != nil {
		t.Fatalf("CreateItem(%q): %v", title, err)
	}
	return item
}
