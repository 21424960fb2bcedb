package models

import "time"

// Bar is a venue listing.
type Bar struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address"`
	City        string   `json:"city,omitempty"`
	PhotoURL    string   `json:"photoUrl,omitempty"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Tags        []string `json:"tags,omitempty"`
	OwnerID     string   `json:"ownerId,omitempty"`
}

// MenuItem is a single entry on a bar's menu.
type MenuItem struct {
	ID          string  `json:"id"`
	BarID       string  `json:"barId"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Available   bool    `json:"available"`
}

// Review is a patron review of a bar.
type Review struct {
	ID        string    `json:"id"`
	BarID     string    `json:"barId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is a scheduled happening at a bar.
type Event struct {
	ID          string    `json:"id"`
	BarID       string    `json:"barId"`
	BarName     string    `json:"barName,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt,omitempty"`
}
