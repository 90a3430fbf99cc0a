package storage

import (
	"os"
	"path/filepath"
	"testing"

	"houspider/models"
)

func intp(n int) *int { return &n }

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "house_id1.csv")

	records := []*models.HouseRecord{
		{HouseID: "1004530000123", IsPRItem: true, Name: "パークハウス",
			Price: intp(34800000), Category: models.CategoryMansionChuko, City: models.CityTokyo},
		{HouseID: "7ab3f", Name: "レジデンス101", Price: intp(120000), ManageFee: intp(8000),
			Category: models.CategoryChintai, City: models.CityTokyo},
		{HouseID: "1004530000999", Name: "価格未定", Price: nil,
			Category: models.CategoryMansionChuko, City: models.CityTokyo},
	}

	if err := WriteSnapshot(path, records); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	for i, want := range records {
		if got[i].HouseID != want.HouseID || got[i].IsPRItem != want.IsPRItem ||
			got[i].Name != want.Name || got[i].Category != want.Category {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want)
		}
		if !models.IntPtrEqual(got[i].Price, want.Price) {
			t.Errorf("record %d price mismatch", i)
		}
		if !models.IntPtrEqual(got[i].ManageFee, want.ManageFee) {
			t.Errorf("record %d manage fee mismatch", i)
		}
	}
}

func TestReadSnapshotEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("zero-byte file should be a valid empty snapshot, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records from empty file", len(got))
	}
}

func TestReadSnapshotRejectsMalformedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "house_id,is_pr_item,listing_house_name,listing_house_price,listing_house_manage_fee,sale_category,city\n" +
		"123,not-a-bool,name,100,,mansion_chuko,tokyo\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadSnapshot(path); err == nil {
		t.Error("malformed is_pr_item should be an error")
	}
}

func TestReadSnapshotRejectsWrongHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrong.csv")
	if err := os.WriteFile(path, []byte("id,name\n1,x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadSnapshot(path); err == nil {
		t.Error("unexpected header should be an error")
	}
}

func TestWorklistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house_id2.csv")
	ids := []string{"1004530000123", "7ab3f", "1004530000999"}

	if err := WriteWorklist(path, ids); err != nil {
		t.Fatalf("WriteWorklist: %v", err)
	}
	got, err := ReadHouseIDs(path, false)
	if err != nil {
		t.Fatalf("ReadHouseIDs: %v", err)
	}

	if len(got) != len(ids) {
		t.Fatalf("got %d ids, want %d", len(got), len(ids))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("id %d = %q, want %q", i, got[i], ids[i])
		}
	}
}

func TestReadHouseIDsDedupe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.csv")
	if err := WriteWorklist(path, []string{"a", "b", "a", "c", "b"}); err != nil {
		t.Fatal(err)
	}

	got, err := ReadHouseIDs(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("dedupe kept %d ids, want 3: %v", len(got), got)
	}
}

func TestFailuresRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error_house_id2.csv")
	failures := []*models.FetchFailure{
		{HouseID: "1004530000123", Reason: "TimeoutError"},
		{HouseID: "7ab3f", Reason: "HttpError"},
	}

	if err := WriteFailures(path, failures); err != nil {
		t.Fatalf("WriteFailures: %v", err)
	}
	got, err := ReadFailures(path)
	if err != nil {
		t.Fatalf("ReadFailures: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d failures, want 2", len(got))
	}
	for i := range failures {
		if got[i].HouseID != failures[i].HouseID || got[i].Reason != failures[i].Reason {
			t.Errorf("failure %d = %+v, want %+v", i, got[i], failures[i])
		}
	}
}

func TestReadFailuresMissingFile(t *testing.T) {
	got, err := ReadFailures(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("missing failure file should not error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing file, got %v", got)
	}
}

func TestErrorURLsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error_list_urls.csv")
	urls := []string{
		"https://www.homes.co.jp/mansion/chuko/tokyo/chiyoda-city/list/?page=3",
		"https://www.homes.co.jp/mansion/chuko/tokyo/minato-city/list/?page=7",
	}

	if err := WriteErrorURLs(path, urls); err != nil {
		t.Fatalf("WriteErrorURLs: %v", err)
	}
	got, err := ReadErrorURLs(path)
	if err != nil {
		t.Fatalf("ReadErrorURLs: %v", err)
	}
	if len(got) != 2 || got[0] != urls[0] || got[1] != urls[1] {
		t.Errorf("round trip mismatch: %v", got)
	}

	if missing, err := ReadErrorURLs(filepath.Join(t.TempDir(), "none.csv")); err != nil || missing != nil {
		t.Errorf("missing file: got %v, %v", missing, err)
	}
}
