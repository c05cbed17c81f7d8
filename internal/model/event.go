package model

import "time"

// Event is the capacity ledger host. Capacity is fixed at creation;
// availability starts equal to capacity and is decremented exclusively
// by the purchase transaction, which enforces 0 <= availability <= capacity.
type Event struct {
	ID           string    // events.id
	Name         string    // events.name
	Description  string    // events.description
	ImageURL     string    // events.image_url
	StartsAt     time.Time // events.starts_at
	PriceCents   int64     // events.price_cents
	Capacity     int       // events.capacity
	Availability int       // events.availability
	Category     string    // events.category
	Location     string    // events.location
	Latitude     float64   // events.latitude
	Longitude    float64   // events.longitude
	CreatorID    string    // events.creator_id
	IsActive     bool      // events.is_active
	CreatedAt    time.Time // events.created_at
	UpdatedAt    time.Time // events.updated_at
}
