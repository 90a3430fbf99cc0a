package models

import (
	"fmt"
	"time"
)

// Category is the sale/rental category of a crawl scope.
type Category string

const (
	// CategoryMansionChuko covers second-hand condominium sale listings.
	CategoryMansionChuko Category = "mansion_chuko"
	// CategoryChintai covers rental listings.
	CategoryChintai Category = "chintai"
)

// ParseCategory validates a category flag value.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryMansionChuko, CategoryChintai:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q (want %q or %q)",
		s, CategoryMansionChuko, CategoryChintai)
}

// IsRent reports whether the category is a rental one.
func (c Category) IsRent() bool { return c == CategoryChintai }

// City is the city/region tag of a crawl scope.
type City string

// CityTokyo is the only city currently crawled.
const CityTokyo City = "tokyo"

// ParseCity validates a city flag value.
func ParseCity(s string) (City, error) {
	if City(s) == CityTokyo {
		return CityTokyo, nil
	}
	return "", fmt.Errorf("unknown city %q (want %q)", s, CityTokyo)
}

// HouseRecord is one observed listing row from a list-page crawl.
// Price and ManageFee are nil when the page carried no parseable number;
// nil is preserved as "unknown" and never coerced to zero.
type HouseRecord struct {
	HouseID   string
	IsPRItem  bool
	Name      string
	Price     *int
	ManageFee *int
	Category  Category
	City      City
}

// SameListing reports whether the mutable attributes of two records are
// identical. Identity is not compared.
func (h *HouseRecord) SameListing(other *HouseRecord) bool {
	return h.IsPRItem == other.IsPRItem &&
		h.Name == other.Name &&
		IntPtrEqual(h.Price, other.Price) &&
		IntPtrEqual(h.ManageFee, other.ManageFee) &&
		h.Category == other.Category &&
		h.City == other.City
}

// AvailableHouse is the persisted state of a listing that appeared in the
// most recent snapshot for its scope.
type AvailableHouse struct {
	HouseRecord
	FirstAvailableDate time.Time
}

// IntPtrEqual compares two optional ints; nil equals only nil.
func IntPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
