package services

import (
	"math/rand"
	"reflect"
	"testing"

	"houspider/models"
	"houspider/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func intp(n int) *int { return &n }

func house(id string, pr bool, name string, price *int) *models.HouseRecord {
	return &models.HouseRecord{
		HouseID:  id,
		IsPRItem: pr,
		Name:     name,
		Price:    price,
		Category: models.CategoryMansionChuko,
		City:     models.CityTokyo,
	}
}

func TestDedupePrefersPromotedRow(t *testing.T) {
	d := NewDeduplicator(newTestLogger())

	raw := []*models.HouseRecord{
		house("100", false, "plain agent", intp(3000)),
		house("100", true, "pr agent", intp(3100)),
	}

	out := d.Dedupe(raw)
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if !out[0].IsPRItem || out[0].Name != "pr agent" {
		t.Errorf("promoted row should win, got %+v", out[0])
	}
}

func TestDedupeKeepsFirstAmongEqualPromotion(t *testing.T) {
	d := NewDeduplicator(newTestLogger())

	raw := []*models.HouseRecord{
		house("200", false, "first", intp(1000)),
		house("200", false, "second", intp(2000)),
	}

	out := d.Dedupe(raw)
	if len(out) != 1 || out[0].Name != "first" {
		t.Errorf("first row should win among equal promotion, got %+v", out[0])
	}
}

func TestDedupeDeterministicUnderPermutation(t *testing.T) {
	d := NewDeduplicator(newTestLogger())

	base := []*models.HouseRecord{
		house("3", false, "c", intp(300)),
		house("1", true, "a-pr", intp(110)),
		house("1", false, "a", intp(100)),
		house("2", false, "b", nil),
		house("2", false, "b2", intp(200)),
	}

	want := d.Dedupe(base)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]*models.HouseRecord, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := d.Dedupe(shuffled)
		if len(got) != len(want) {
			t.Fatalf("permutation %d: got %d rows, want %d", i, len(got), len(want))
		}
		for j := range want {
			if got[j].HouseID != want[j].HouseID || got[j].IsPRItem != want[j].IsPRItem {
				t.Fatalf("permutation %d: row %d = %+v, want %+v", i, j, got[j], want[j])
			}
		}
	}
}

func TestDedupeEmptyInput(t *testing.T) {
	d := NewDeduplicator(newTestLogger())
	if out := d.Dedupe(nil); len(out) != 0 {
		t.Errorf("expected 0 rows for empty input, got %d", len(out))
	}
}

func TestDedupeEmptyIDSortsLast(t *testing.T) {
	d := NewDeduplicator(newTestLogger())

	raw := []*models.HouseRecord{
		house("", false, "broken", nil),
		house("5", false, "ok", intp(500)),
	}

	out := d.Dedupe(raw)
	ids := []string{out[0].HouseID, out[1].HouseID}
	if !reflect.DeepEqual(ids, []string{"5", ""}) {
		t.Errorf("empty id should sort last, got %v", ids)
	}
}
