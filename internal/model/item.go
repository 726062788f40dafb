package model

import (
	"fmt"
	"time"
)

// Item is a garment listing owned by one user.
type Item struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Size        string     `json:"size,omitempty"`
	Brand       string     `json:"brand,omitempty"`
	Color       string     `json:"color,omitempty"`
	Condition   string     `json:"condition"`
	Tags        string     `json:"tags,omitempty"`
	Status      string     `json:"status"`
	Points      int        `json:"points"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	OwnerName string `json:"owner_name,omitempty"`
}

// Item statuses.
const (
	ItemStatusActive      = "active"
	ItemStatusPendingSwap = "pending_swap"
	ItemStatusSwapped     = "swapped"
)

// ValidItemStatus reports whether status is one of the item statuses.
func ValidItemStatus(status string) bool {
	switch status {
	case ItemStatusActive, ItemStatusPendingSwap, ItemStatusSwapped:
		return true
	}
	return false
}

// Categories.
var Categories = []string{
	"tops", "bottoms", "dresses", "jackets", "knitwear",
	"shoes", "accessories", "bags", "activewear", "formal",
}

// Conditions.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionNew       = "new"
	ConditionLikeNew   = "like_new"
	ConditionUsed      = "used"
	ConditionVintage   = "vintage"
)

var conditionPoints = map[string]int{
	ConditionExcellent: 50,
	ConditionGood:      30,
	ConditionFair:      10,
	ConditionNew:       60,
	ConditionLikeNew:   45,
	ConditionUsed:      5,
	ConditionVintage:   40,
}

// ConditionPoints returns the nominal point value of a listing in the given
// condition. Unknown conditions are worth 0.
func ConditionPoints(condition string) int {
	return conditionPoints[condition]
}

// ValidateListing checks the user-supplied listing fields.
func ValidateListing(title, category, condition string) error {
	if title == "" {
		return fmt.Errorf("title required")
	}
	if !validCategory(category) {
		return fmt.Errorf("invalid category %q", category)
	}
	if _, ok := conditionPoints[condition]; !ok {
		return fmt.Errorf("invalid condition %q", condition)
	}
	return nil
}

func validCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
