package lifull

import (
	"testing"

	"houspider/models"
)

func TestDetailURL(t *testing.T) {
	tests := []struct {
		name     string
		category models.Category
		houseID  string
		want     string
	}{
		{"sale", models.CategoryMansionChuko, "1004530000123",
			"https://www.homes.co.jp/mansion/b-1004530000123/?iskks=1"},
		{"rental room code", models.CategoryChintai, "7ab3f",
			"https://www.homes.co.jp/chintai/room/7ab3f/"},
		{"rental building id from PR row", models.CategoryChintai, "1004530000123",
			"https://www.homes.co.jp/chintai/b-1004530000123/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetailURL(tt.category, tt.houseID); got != tt.want {
				t.Errorf("DetailURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHouseIDFromLink(t *testing.T) {
	tests := []struct {
		name     string
		category models.Category
		link     string
		isPR     bool
		want     string
		ok       bool
	}{
		{"sale building link", models.CategoryMansionChuko,
			"https://www.homes.co.jp/mansion/b-1004530000123/", false, "1004530000123", true},
		{"rental room link", models.CategoryChintai,
			"https://www.homes.co.jp/chintai/room/7ab3f/", false, "7ab3f", true},
		{"rental PR link carries building id", models.CategoryChintai,
			"https://www.homes.co.jp/chintai/b-1004530000123/", true, "1004530000123", true},
		{"unrecognized link", models.CategoryMansionChuko,
			"https://www.homes.co.jp/mansion/tokyo/list", false, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := houseIDFromLink(tt.category, tt.link, tt.isPR)
			if got != tt.want || ok != tt.ok {
				t.Errorf("houseIDFromLink = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDistrictFromAddress(t *testing.T) {
	if got := DistrictFromAddress("東京都世田谷区太子堂2丁目"); got != "世田谷区" {
		t.Errorf("got %q, want 世田谷区", got)
	}
	if got := DistrictFromAddress("神奈川県横浜市西区"); got != "" {
		t.Errorf("non-Tokyo address should yield empty, got %q", got)
	}
}
