package domain

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ListingFilters narrows a listing search. Every set field is a conjunct;
// nil or empty fields do not constrain the result.
type ListingFilters struct {
	Type          ListingType  `json:"type,omitempty" yaml:"type,omitempty"`
	PropertyType  PropertyType `json:"propertyType,omitempty" yaml:"propertyType,omitempty"`
	MinPrice      *int64       `json:"minPrice,omitempty" yaml:"minPrice,omitempty"`
	MaxPrice      *int64       `json:"maxPrice,omitempty" yaml:"maxPrice,omitempty"`
	MinArea       *float64     `json:"minArea,omitempty" yaml:"minArea,omitempty"`
	MaxArea       *float64     `json:"maxArea,omitempty" yaml:"maxArea,omitempty"`
	Bedrooms      *int         `json:"bedrooms,omitempty" yaml:"bedrooms,omitempty"` // lower bound
	District      string       `json:"district,omitempty" yaml:"district,omitempty"`
	City          string       `json:"city,omitempty" yaml:"city,omitempty"`
	SearchQuery   string       `json:"searchQuery,omitempty" yaml:"searchQuery,omitempty"`
	PostedBy      string       `json:"postedByUserId,omitempty" yaml:"postedByUserId,omitempty"` // exact user id
	IncludeHidden bool         `json:"includeHidden,omitempty" yaml:"includeHidden,omitempty"`   // admin view
}

// Match reports whether l satisfies every predicate in f.
func (f ListingFilters) Match(l Listing) bool {
	if l.IsHidden && !f.IncludeHidden {
		return false
	}
	if f.PostedBy != "" && l.PostedByUserID != f.PostedBy {
		return false
	}
	if f.Type != "" && l.Type != f.Type {
		return false
	}
	if f.PropertyType != "" && l.PropertyType != f.PropertyType {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	if f.MinArea != nil && l.Area < *f.MinArea {
		return false
	}
	if f.MaxArea != nil && l.Area > *f.MaxArea {
		return false
	}
	if f.Bedrooms != nil && l.Bedrooms < *f.Bedrooms {
		return false
	}
	if f.District != "" && !containsFold(l.District, f.District) {
		return false
	}
	if f.City != "" && !containsFold(l.City, f.City) {
		return false
	}
	if f.SearchQuery != "" &&
		!containsFold(l.Title, f.SearchQuery) &&
		!containsFold(l.Description, f.SearchQuery) &&
		!containsFold(l.Address, f.SearchQuery) {
		return false
	}
	return true
}

// containsFold is a case-insensitive substring test. Both sides are NFC
// normalized first so precomposed and decomposed Vietnamese input compare equal.
func containsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}

// fold allocates a Caser per call; cases.Caser is not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// ListingDraft holds the caller-supplied fields of a new listing.
// ID, PostedAt, Status, Views, ContactClicks and IsHidden are assigned on create.
type ListingDraft struct {
	Title          string       `json:"title" yaml:"title"`
	Description    string       `json:"description" yaml:"description"`
	Price          int64        `json:"price" yaml:"price"`
	PriceUnit      string       `json:"priceUnit" yaml:"priceUnit"`
	Type           ListingType  `json:"type" yaml:"type"`
	PropertyType   PropertyType `json:"propertyType" yaml:"propertyType"`
	Area           float64      `json:"area" yaml:"area"`
	Bedrooms       int          `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms      int          `json:"bathrooms" yaml:"bathrooms"`
	Address        string       `json:"address" yaml:"address"`
	District       string       `json:"district" yaml:"district"`
	City           string       `json:"city" yaml:"city"`
	Coords         Coords       `json:"coords" yaml:"coords"`
	Images         []string     `json:"images" yaml:"images"`
	PostedByUserID string       `json:"postedByUserId" yaml:"postedByUserId"`
}

// ListingPatch is a shallow partial update. Nil fields are left untouched.
type ListingPatch struct {
	Title        *string        `json:"title,omitempty" yaml:"title,omitempty"`
	Description  *string        `json:"description,omitempty" yaml:"description,omitempty"`
	Price        *int64         `json:"price,omitempty" yaml:"price,omitempty"`
	PriceUnit    *string        `json:"priceUnit,omitempty" yaml:"priceUnit,omitempty"`
	Type         *ListingType   `json:"type,omitempty" yaml:"type,omitempty"`
	PropertyType *PropertyType  `json:"propertyType,omitempty" yaml:"propertyType,omitempty"`
	Area         *float64       `json:"area,omitempty" yaml:"area,omitempty"`
	Bedrooms     *int           `json:"bedrooms,omitempty" yaml:"bedrooms,omitempty"`
	Bathrooms    *int           `json:"bathrooms,omitempty" yaml:"bathrooms,omitempty"`
	Address      *string        `json:"address,omitempty" yaml:"address,omitempty"`
	District     *string        `json:"district,omitempty" yaml:"district,omitempty"`
	City         *string        `json:"city,omitempty" yaml:"city,omitempty"`
	Coords       *Coords        `json:"coords,omitempty" yaml:"coords,omitempty"`
	Images       []string       `json:"images,omitempty" yaml:"images,omitempty"`
	Status       *ListingStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// Apply returns l with every non-nil field of p copied over it.
func (p ListingPatch) Apply(l Listing) Listing {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.PriceUnit != nil {
		l.PriceUnit = *p.PriceUnit
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.PropertyType != nil {
		l.PropertyType = *p.PropertyType
	}
	if p.Area != nil {
		l.Area = *p.Area
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.District != nil {
		l.District = *p.District
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.Coords != nil {
		l.Coords = *p.Coords
	}
	if p.Images != nil {
		l.Images = slices.Clone(p.Images)
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	return l
}
