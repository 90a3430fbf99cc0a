package models

import "testing"

func intp(n int) *int { return &n }

func TestSameListing(t *testing.T) {
	base := func() *HouseRecord {
		return &HouseRecord{
			HouseID: "1004530000123", Name: "パークハウス", Price: intp(3480),
			Category: CategoryMansionChuko, City: CityTokyo,
		}
	}

	tests := []struct {
		name   string
		mutate func(*HouseRecord)
		same   bool
	}{
		{"identical", func(h *HouseRecord) {}, true},
		{"different identity only", func(h *HouseRecord) { h.HouseID = "999" }, true},
		{"price changed", func(h *HouseRecord) { h.Price = intp(3500) }, false},
		{"price dropped to unknown", func(h *HouseRecord) { h.Price = nil }, false},
		{"name changed", func(h *HouseRecord) { h.Name = "別の物件" }, false},
		{"promotion changed", func(h *HouseRecord) { h.IsPRItem = true }, false},
		{"manage fee appeared", func(h *HouseRecord) { h.ManageFee = intp(8000) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := base(), base()
			tt.mutate(b)
			if got := a.SameListing(b); got != tt.same {
				t.Errorf("SameListing = %v, want %v", got, tt.same)
			}
		})
	}
}

func TestIntPtrEqual(t *testing.T) {
	zero := 0
	if !IntPtrEqual(nil, nil) {
		t.Error("nil should equal nil")
	}
	if IntPtrEqual(nil, &zero) || IntPtrEqual(&zero, nil) {
		t.Error("nil must not equal zero")
	}
	if !IntPtrEqual(intp(5), intp(5)) {
		t.Error("equal values should match")
	}
	if IntPtrEqual(intp(5), intp(6)) {
		t.Error("different values should not match")
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory("chintai"); err != nil || c != CategoryChintai {
		t.Errorf("ParseCategory(chintai) = %v, %v", c, err)
	}
	if !CategoryChintai.IsRent() || CategoryMansionChuko.IsRent() {
		t.Error("IsRent wrong")
	}
	if _, err := ParseCategory("ikkodate"); err == nil {
		t.Error("unknown category should error")
	}
}

func TestParseCity(t *testing.T) {
	if _, err := ParseCity("tokyo"); err != nil {
		t.Errorf("ParseCity(tokyo): %v", err)
	}
	if _, err := ParseCity("osaka"); err == nil {
		t.Error("unknown city should error")
	}
}
