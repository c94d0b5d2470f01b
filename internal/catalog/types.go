// Package catalog defines core types shared across the populate pipeline.
package catalog

import (
	"encoding/json"
	"time"
)

// EntityType identifies one of the shared reference tables a game points at.
type EntityType string

// Reference entity kinds materialized by the pipeline.
const (
	EntityDeveloper EntityType = "developer"
	EntityPublisher EntityType = "publisher"
	EntityCategory  EntityType = "category"
	EntityPlatform  EntityType = "platform"
)

// EntityTypes lists every reference entity kind in a fixed order.
func EntityTypes() []EntityType {
	return []EntityType{EntityDeveloper, EntityPublisher, EntityCategory, EntityPlatform}
}

// Entity is one row of a reference table. Within a type, Name is unique and
// Slug is derived deterministically from Name. Entities are created on first
// sighting and never updated or deleted by the pipeline.
type Entity struct {
	ID   string     `json:"id"`
	Type EntityType `json:"type"`
	Name string     `json:"name"`
	Slug string     `json:"slug"`
}

// Price is the nested price object in a GOG product record.
type Price struct {
	Amount string `json:"amount"`
}

// Product is one raw record from the GOG catalog listing endpoint.
// GlobalReleaseDate is epoch seconds; GOG serves it as a bare number on some
// listings and a quoted string on others, so it is decoded as json.Number.
type Product struct {
	Title                     string      `json:"title"`
	Slug                      string      `json:"slug"`
	Price                     Price       `json:"price"`
	GlobalReleaseDate         json.Number `json:"globalReleaseDate"`
	Genres                    []string    `json:"genres"`
	SupportedOperatingSystems []string    `json:"supportedOperatingSystems"`
	Developer                 string      `json:"developer"`
	Publisher                 string      `json:"publisher"`
}

// Enrichment is the description content scraped from a product detail page.
type Enrichment struct {
	Rating           string
	ShortDescription string
	Description      string
}

// Game is the normalized record materialized for one product. Title is
// unique across the store, enforced by existence check only. Games are
// created once and never refreshed on re-run.
type Game struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Price            float64   `json:"price"`
	ReleaseDate      time.Time `json:"release_date"`
	Categories       []Entity  `json:"categories"`
	Platforms        []Entity  `json:"platforms"`
	Developers       []Entity  `json:"developers"`
	Publisher        Entity    `json:"publisher"`
	Rating           string    `json:"rating"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
}
