package lifull

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"houspider/config"
	"houspider/utils"
)

// DetailPage is one fetched detail page, parsed and ready for extraction.
type DetailPage struct {
	StatusCode int
	Doc        *goquery.Document
}

// Gone reports whether the listing no longer exists: a 404, or a page
// carrying the portal's expired/not-found markers.
func (p *DetailPage) Gone() bool {
	if p.StatusCode == http.StatusNotFound {
		return true
	}
	if p.Doc == nil {
		return false
	}
	return p.Doc.Find(".mod-expiredInformation").Length() > 0 ||
		p.Doc.Find(".mod-bukkenNotFound").Length() > 0
}

// DetailFetcher fetches single detail pages. Concurrency and pacing are
// the caller's concern (the worker pool); each Fetch is synchronous.
type DetailFetcher struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// NewDetailFetcher creates a DetailFetcher.
func NewDetailFetcher(cfg *config.Config, logger *utils.Logger) *DetailFetcher {
	return &DetailFetcher{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
			Logger:      logger,
		},
	}
}

// Fetch retrieves one detail page. A 404 is a valid result, not an error;
// transport failures are returned for the caller to turn into structured
// failure records.
func (f *DetailFetcher) Fetch(url string) (*DetailPage, error) {
	var page *DetailPage
	err := f.retry.Do("fetch "+url, func() error {
		p, err := f.fetchOnce(url)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (f *DetailFetcher) fetchOnce(url string) (*DetailPage, error) {
	page := &DetailPage{}
	var fetchErr error

	c := colly.NewCollector(
		colly.UserAgent(f.cfg.UserAgent),
		colly.AllowedDomains(allowedDomain),
		colly.ParseHTTPErrorResponse(),
		colly.AllowURLRevisit(),
	)
	c.OnResponse(func(r *colly.Response) {
		page.StatusCode = r.StatusCode
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			fetchErr = fmt.Errorf("parse body: %w", err)
			return
		}
		page.Doc = doc
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			page.StatusCode = r.StatusCode
			return
		}
		fetchErr = err
	})

	if err := c.Visit(url); err != nil && fetchErr == nil && page.StatusCode == 0 {
		fetchErr = err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if page.StatusCode == 0 {
		return nil, fmt.Errorf("no response for %s", url)
	}
	return page, nil
}

// FailReason maps a fetch error to the structured failure tags the retry
// pass and the alert mail use.
func FailReason(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "DNSLookupError"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "TimeoutError"
	}
	if errors.Is(err, colly.ErrForbiddenDomain) || errors.Is(err, colly.ErrRobotsTxtBlocked) {
		return "HttpError"
	}
	return "Other"
}
