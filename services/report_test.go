package services

import (
	"strings"
	"testing"
	"time"

	"houspider/config"
	"houspider/models"
)

func testConfig() *config.Config {
	return &config.Config{
		SMTPSender:      "houspider.alert@example.com",
		AlertRecipients: []string{"owner@example.com"},
	}
}

func TestSummarySubjectTotals(t *testing.T) {
	s := NewReportService(testConfig(), newTestLogger())
	date := time.Date(2022, 11, 17, 0, 0, 0, 0, time.UTC)

	stats := []*models.CrawlStats{
		{CrawlDate: date, Category: models.CategoryMansionChuko, City: models.CityTokyo,
			NewAdded: 10, Reopened: 1, Updated: 5, NewUnavailable: 3},
		{CrawlDate: date, Category: models.CategoryChintai, City: models.CityTokyo,
			NewAdded: 20, Reopened: 2, Updated: 8, NewUnavailable: 4},
	}

	subject, body := s.Summary(date, stats)

	if !strings.Contains(subject, "30 New") || !strings.Contains(subject, "7 Removed") ||
		!strings.Contains(subject, "13 Updated") || !strings.Contains(subject, "3 Reopen") {
		t.Errorf("subject totals wrong: %q", subject)
	}
	if !strings.Contains(subject, "[2022-11-17]") {
		t.Errorf("subject missing date: %q", subject)
	}
	if !strings.Contains(body, "tokyo mansion_chuko: 10 New, 3 Removed, 5 Updated, 1 Reopen") {
		t.Errorf("body missing scope line: %q", body)
	}
}

func TestSummaryEmptyStats(t *testing.T) {
	s := NewReportService(testConfig(), newTestLogger())
	date := time.Date(2022, 11, 17, 0, 0, 0, 0, time.UTC)

	subject, _ := s.Summary(date, nil)
	if !strings.Contains(subject, "0 New, 0 Removed, 0 Updated, 0 Reopen") {
		t.Errorf("empty stats subject wrong: %q", subject)
	}
}

func TestAlertNothingToReport(t *testing.T) {
	s := NewReportService(testConfig(), newTestLogger())
	date := time.Date(2022, 11, 17, 0, 0, 0, 0, time.UTC)

	if _, _, ok := s.Alert(date, nil, nil); ok {
		t.Error("alert with no failures should report nothing")
	}
}

func TestAlertComposition(t *testing.T) {
	s := NewReportService(testConfig(), newTestLogger())
	date := time.Date(2022, 11, 17, 0, 0, 0, 0, time.UTC)

	listErrors := []string{"https://example.com/1", "https://example.com/2",
		"https://example.com/3", "https://example.com/4"}
	failures := []*models.FetchFailure{{HouseID: "100", Reason: "TimeoutError"}}

	subject, body, ok := s.Alert(date, listErrors, failures)
	if !ok {
		t.Fatal("expected alert to fire")
	}
	if !strings.Contains(subject, "error_house_list_url") || !strings.Contains(subject, "error_house_info_url") {
		t.Errorf("subject missing tags: %q", subject)
	}
	if !strings.Contains(body, "4 house list page urls have errors") {
		t.Errorf("body missing list-error section: %q", body)
	}
	// Only the first three URLs are previewed.
	if strings.Contains(body, "https://example.com/4") || !strings.Contains(body, "...") {
		t.Errorf("list-error preview not truncated: %q", body)
	}
	if !strings.Contains(body, "100: TimeoutError") {
		t.Errorf("body missing fetch failure line: %q", body)
	}
}
