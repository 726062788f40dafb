package store

import (
	"context"
	"testing"

	"github.com/erazemk/rewear/internal/db"
	"github.com/erazemk/rewear/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "alice@example.com")
	item, err := CreateItem(ctx, database, owner.ID, Listing{
		Title:     "Denim jacket",
		Category:  "jackets",
		Brand:     "Levi's",
		Condition: model.ConditionLikeNew,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Status != model.ItemStatusActive {
		t.Errorf("expected status 'active', got %q", item.Status)
	}
	if item.Points != 45 {
		t.Errorf("expected 45 points for like_new, got %d", item.Points)
	}
	if item.OwnerID != owner.ID || item.OwnerName != owner.FullName {
		t.Errorf("unexpected owner %d/%q", item.OwnerID, item.OwnerName)
	}
	if item.PhotoURL != "" {
		t.Errorf("expected no photo url, got %q", item.PhotoURL)
	}
}

func TestListItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustUser(t, database, "alice@example.com")
	bob := mustUser(t, database, "bob@example.com")

	CreateItem(ctx, database, alice.ID, Listing{Title: "Wool sweater", Category: "knitwear", Size: "M", Brand: "Uniqlo", Condition: model.ConditionGood, Tags: "winter"})
	CreateItem(ctx, database, alice.ID, Listing{Title: "Summer dress", Category: "dresses", Size: "S", Brand: "Zara", Condition: model.ConditionNew})
	CreateItem(ctx, database, bob.ID, Listing{Title: "Running shoes", Category: "shoes", Size: "42", Brand: "Nike", Condition: model.ConditionUsed})

	tests := []struct {
		name   string
		filter ItemFilter
		want   int
	}{
		{"all", ItemFilter{}, 3},
		{"search title", ItemFilter{Search: "SWEATER"}, 1},
		{"search tags", ItemFilter{Search: "winter"}, 1},
		{"search brand", ItemFilter{Search: "nik"}, 1},
		{"category", ItemFilter{Category: "Dresses"}, 1},
		{"brand exact", ItemFilter{Brand: "zara"}, 1},
		{"sizes", ItemFilter{Sizes: []string{"S", "M"}}, 2},
		{"conditions", ItemFilter{Conditions: []string{model.ConditionNew, model.ConditionUsed}}, 2},
		{"owner", ItemFilter{OwnerID: bob.ID}, 1},
		{"status", ItemFilter{Status: model.ItemStatusSwapped}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ListItems(ctx, database, tt.filter)
			if err != nil {
				t.Fatalf("ListItems: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("expected %d items, got %d", tt.want, len(items))
			}
		})
	}
}

func TestDeleteItemOnlyWhileActive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "alice@example.com")
	active := mustItem(t, database, owner.ID, "Active")
	reserved := mustItem(t, database, owner.ID, "Reserved")
	SetItemStatus(ctx, database, reserved.ID, model.ItemStatusPendingSwap)

	ok, err := DeleteItem(ctx, database, active.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteItem(active) = %v, %v", ok, err)
	}
	ok, err = DeleteItem(ctx, database, reserved.ID)
	if err != nil {
		t.Fatalf("DeleteItem(reserved): %v", err)
	}
	if ok {
		t.Error("expected reserved item not to be deleted")
	}

	items, _ := ListItems(ctx, database, ItemFilter{})
	if len(items) != 1 {
		t.Errorf("expected 1 item after soft delete, got %d", len(items))
	}

	// Still fetchable by ID so swap history can show it.
	got, _ := GetItem(ctx, database, active.ID)
	if got == nil || got.DeletedAt == nil {
		t.Error("expected soft-deleted item to still be fetchable by ID")
	}
}

func TestSetItemStatusRejectsUnknown(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "alice@example.com")
	item := mustItem(t, database, owner.ID, "Shirt")

	if err := SetItemStatus(ctx, database, item.ID, "lost"); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := SetItemStatus(ctx, database, 9999, model.ItemStatusSwapped); err == nil {
		t.Error("expected error for missing item")
	}
}

func TestListAvailableItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustUser(t, database, "alice@example.com")
	bob := mustUser(t, database, "bob@example.com")
	a1 := mustItem(t, database, alice.ID, "A1")
	mustItem(t, database, alice.ID, "A2")
	b1 := mustItem(t, database, bob.ID, "B1")

	if _, err := CreateSwap(ctx, database, alice.ID, a1.ID, bob.ID, b1.ID); err != nil {
		t.Fatalf("CreateSwap: %v", err)
	}

	items, err := ListAvailableItems(ctx, database, alice.ID)
	if err != nil {
		t.Fatalf("ListAvailableItems: %v", err)
	}
	if len(items) != 1 || items[0].Title != "A2" {
		t.Errorf("expected only A2 to be available, got %v", items)
	}

	reserved, _ := ItemReserved(ctx, database, b1.ID)
	if !reserved {
		t.Error("expected B1 to be reserved")
	}
}

func TestItemPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "alice@example.com")
	item := mustItem(t, database, owner.ID, "Photo Item")
	SetItemPhoto(ctx, database, item.ID, []byte("fake image data"), "image/jpeg")

	data, mime, err := GetItemPhoto(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemPhoto: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected photo data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.PhotoURL == "" {
		t.Error("expected photo url once a photo is stored")
	}
}

func TestUpdateItemOnlyWhileActive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "alice@example.com")
	item := mustItem(t, database, owner.ID, "Shirt")

	l := Listing{Title: "Linen shirt", Category: "tops", Size: "L", Condition: model.ConditionLikeNew}
	ok, err := UpdateItem(ctx, database, item.ID, l)
	if err != nil || !ok {
		t.Fatalf("UpdateItem(active) = %v, %v", ok, err)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got.Title != "Linen shirt" || got.Points != 45 {
		t.Errorf("unexpected item after update: %+v", got)
	}

	SetItemStatus(ctx, database, item.ID, model.ItemStatusPendingSwap)
	ok, err = UpdateItem(ctx, database, item.ID, Listing{Title: "Changed", Category: "tops", Condition: model.ConditionGood})
	if err != nil {
		t.Fatalf("UpdateItem(reserved): %v", err)
	}
	if ok {
		t.Error("expected reserved item not to be updated")
	}
}
