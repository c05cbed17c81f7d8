package model

import "time"

// Category groups events for browsing. Managed by admins only.
type Category struct {
	ID          string    // categories.id
	Name        string    // categories.name
	Description string    // categories.description
	ImageURL    string    // categories.image_url
	CreatedAt   time.Time // categories.created_at
}
