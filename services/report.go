package services

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"houspider/config"
	"houspider/models"
	"houspider/utils"
)

// ReportService composes and sends the daily crawl e-mails.
type ReportService struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewReportService creates a ReportService.
func NewReportService(cfg *config.Config, logger *utils.Logger) *ReportService {
	return &ReportService{cfg: cfg, logger: logger}
}

// Summary builds the daily summary mail from the day's crawl stats, one
// line per (city, category) scope plus aggregate totals in the subject.
func (s *ReportService) Summary(crawlDate time.Time, stats []*models.CrawlStats) (subject, body string) {
	var added, removed, updated, reopened int
	lines := make([]string, 0, len(stats))
	for _, st := range stats {
		added += st.NewAdded
		removed += st.NewUnavailable
		updated += st.Updated
		reopened += st.Reopened
		lines = append(lines, fmt.Sprintf("%s %s: %d New, %d Removed, %d Updated, %d Reopen",
			st.City, st.Category, st.NewAdded, st.NewUnavailable, st.Updated, st.Reopened))
	}

	dateStr := crawlDate.Format("2006-01-02")
	subject = fmt.Sprintf("[Houspider Update][%s] %d New, %d Removed, %d Updated, %d Reopen",
		dateStr, added, removed, updated, reopened)
	body = fmt.Sprintf("Houspider results for %s:\n%s\n", dateStr, strings.Join(lines, "\n"))
	return subject, body
}

// Alert builds the error-digest mail from the crawl's failure files.
// ok is false when there is nothing to alert on.
func (s *ReportService) Alert(crawlDate time.Time, listErrors []string, fetchFailures []*models.FetchFailure) (subject, body string, ok bool) {
	if len(listErrors) == 0 && len(fetchFailures) == 0 {
		return "", "", false
	}

	var tags []string
	var sections []string

	if len(listErrors) > 0 {
		tags = append(tags, "error_house_list_url")
		preview := listErrors
		if len(preview) > 3 {
			preview = append(append([]string{}, preview[:3]...), "...")
		}
		sections = append(sections, fmt.Sprintf("%d house list page urls have errors:\n%s",
			len(listErrors), strings.Join(preview, "\n")))
	}

	if len(fetchFailures) > 0 {
		tags = append(tags, "error_house_info_url")
		lines := make([]string, 0, len(fetchFailures))
		for _, f := range fetchFailures {
			lines = append(lines, fmt.Sprintf("%s: %s", f.HouseID, f.Reason))
		}
		sections = append(sections, fmt.Sprintf("%d house info urls have errors:\n%s",
			len(fetchFailures), strings.Join(lines, "\n")))
	}

	dateStr := crawlDate.Format("2006-01-02")
	subject = fmt.Sprintf("[Houspider Error][%s] %s", dateStr, strings.Join(tags, " "))
	body = fmt.Sprintf("We found the following errors while crawling data for %s:\n\n%s\n",
		dateStr, strings.Join(sections, "\n\n"))
	return subject, body, true
}

// Send delivers a mail to the configured alert recipients over SMTP.
func (s *ReportService) Send(subject, body string) error {
	if s.cfg.SMTPSender == "" || len(s.cfg.AlertRecipients) == 0 {
		return fmt.Errorf("report: SMTP sender or recipients not configured")
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.SMTPSender,
		"To: " + strings.Join(s.cfg.AlertRecipients, ","),
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	auth := smtp.PlainAuth("", s.cfg.SMTPSender, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := smtp.SendMail(addr, auth, s.cfg.SMTPSender, s.cfg.AlertRecipients, []byte(msg)); err != nil {
		return fmt.Errorf("report: send mail: %w", err)
	}

	s.logger.Info("[report] Mail sent to %d recipients: %s", len(s.cfg.AlertRecipients), subject)
	return nil
}
