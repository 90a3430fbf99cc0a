package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"houspider/models"
)

var snapshotHeader = []string{
	"house_id", "is_pr_item", "listing_house_name",
	"listing_house_price", "listing_house_manage_fee", "sale_category", "city",
}

// WriteSnapshot writes the raw list-crawl rows to a CSV file, creating
// intermediate directories as needed.
func WriteSnapshot(path string, records []*models.HouseRecord) error {
	w, f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write(snapshotHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, h := range records {
		row := []string{
			h.HouseID,
			strconv.FormatBool(h.IsPRItem),
			h.Name,
			formatOptInt(h.Price),
			formatOptInt(h.ManageFee),
			string(h.Category),
			string(h.City),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadSnapshot parses a raw snapshot file. A zero-byte file is a valid
// empty snapshot; a structurally broken file or a malformed field is an
// error, surfaced before any store mutation happens.
func ReadSnapshot(path string) ([]*models.HouseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open snapshot %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read snapshot header: %w", err)
	}
	if len(header) != len(snapshotHeader) || header[0] != "house_id" {
		return nil, fmt.Errorf("csv: unexpected snapshot header %v", header)
	}

	var records []*models.HouseRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read snapshot line %d: %w", line, err)
		}

		isPR, err := strconv.ParseBool(row[1])
		if err != nil {
			return nil, fmt.Errorf("csv: snapshot line %d: bad is_pr_item %q", line, row[1])
		}
		price, err := parseOptInt(row[3])
		if err != nil {
			return nil, fmt.Errorf("csv: snapshot line %d: bad price %q", line, row[3])
		}
		manageFee, err := parseOptInt(row[4])
		if err != nil {
			return nil, fmt.Errorf("csv: snapshot line %d: bad manage fee %q", line, row[4])
		}
		category, err := models.ParseCategory(row[5])
		if err != nil {
			return nil, fmt.Errorf("csv: snapshot line %d: %w", line, err)
		}
		city, err := models.ParseCity(row[6])
		if err != nil {
			return nil, fmt.Errorf("csv: snapshot line %d: %w", line, err)
		}

		records = append(records, &models.HouseRecord{
			HouseID:   row[0],
			IsPRItem:  isPR,
			Name:      row[2],
			Price:     price,
			ManageFee: manageFee,
			Category:  category,
			City:      city,
		})
	}
	return records, nil
}

// WriteWorklist writes the house ids the detail crawler must visit.
func WriteWorklist(path string, ids []string) error {
	w, f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{"house_id"}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, id := range ids {
		if err := w.Write([]string{id}); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadHouseIDs reads the house_id column from a worklist or failure file.
// With dedupe set, repeated ids are collapsed (failure files from retried
// crawls may contain duplicates).
func ReadHouseIDs(path string, dedupe bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	idCol := -1
	for i, name := range header {
		if name == "house_id" {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("csv: no house_id column in %q", path)
	}

	seen := make(map[string]struct{})
	var ids []string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		id := row[idCol]
		if id == "" {
			continue
		}
		if dedupe {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// WriteFailures writes structured fetch-failure records for the retry pass
// and the alert mail.
func WriteFailures(path string, failures []*models.FetchFailure) error {
	w, f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{"house_id", "fail_reason"}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, fail := range failures {
		if err := w.Write([]string{fail.HouseID, fail.Reason}); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadFailures reads a failure file back; a missing or empty file yields
// no records.
func ReadFailures(path string) ([]*models.FetchFailure, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); errors.Is(err, io.EOF) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	var failures []*models.FetchFailure
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		if len(row) < 2 {
			continue
		}
		failures = append(failures, &models.FetchFailure{HouseID: row[0], Reason: row[1]})
	}
	return failures, nil
}

// WriteErrorURLs writes the list-page URLs a crawl failed to fetch.
func WriteErrorURLs(path string, urls []string) error {
	w, f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{"error_list_url"}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, u := range urls {
		if err := w.Write([]string{u}); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadErrorURLs reads an error-URL file; a missing or empty file yields
// no records.
func ReadErrorURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); errors.Is(err, io.EOF) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	var urls []string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		if len(row) > 0 && row[0] != "" {
			urls = append(urls, row[0])
		}
	}
	return urls, nil
}

func createCSV(path string) (*csv.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	return csv.NewWriter(f), f, nil
}

func formatOptInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func parseOptInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
