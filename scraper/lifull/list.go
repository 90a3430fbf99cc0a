package lifull

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"houspider/config"
	"houspider/models"
	"houspider/utils"
)

// ListSpider crawls every list page of one (category, city) scope and
// collects the raw snapshot rows.
type ListSpider struct {
	cfg      *config.Config
	logger   *utils.Logger
	category models.Category
	city     models.City

	mu         sync.Mutex
	records    []*models.HouseRecord
	failedURLs []string
}

// NewListSpider creates a ListSpider for one crawl scope.
func NewListSpider(cfg *config.Config, logger *utils.Logger, category models.Category, city models.City) *ListSpider {
	return &ListSpider{cfg: cfg, logger: logger, category: category, city: city}
}

// Run fetches the first list page to learn the page count, fans out over
// all pages, and returns the raw rows plus the URLs that failed. Rows the
// markup would not yield are logged and skipped, never fatal.
func (s *ListSpider) Run() ([]*models.HouseRecord, []string, error) {
	listURL := ListURL(s.category, s.city)

	totalHouses, numPages, err := s.fetchPageCount(listURL)
	if err != nil {
		return nil, nil, fmt.Errorf("lifull: first list page: %w", err)
	}
	s.logger.Info("[list] Total %d houses and %d pages found for %s/%s",
		totalHouses, numPages, s.city, s.category)

	c := s.newCollector(true)
	c.OnHTML(".moduleInner", s.parseModule)
	c.OnError(func(r *colly.Response, err error) {
		s.logger.Error("[list] %s failed: %v", r.Request.URL, err)
		s.mu.Lock()
		s.failedURLs = append(s.failedURLs, r.Request.URL.String())
		s.mu.Unlock()
	})

	for page := 1; page <= numPages; page++ {
		pageURL := fmt.Sprintf("%s?page=%d", listURL, page)
		if s.category.IsRent() {
			// The rental list is form-filtered to the 23 wards.
			if err := c.Post(pageURL, chintaiFormData()); err != nil {
				s.logger.Error("[list] POST %s: %v", pageURL, err)
			}
		} else {
			if err := c.Visit(pageURL); err != nil {
				s.logger.Error("[list] GET %s: %v", pageURL, err)
			}
		}
	}
	c.Wait()

	s.logger.Info("[list] Crawl done: %d rows collected, %d pages failed",
		len(s.records), len(s.failedURLs))
	return s.records, s.failedURLs, nil
}

func (s *ListSpider) fetchPageCount(listURL string) (totalHouses, numPages int, err error) {
	c := s.newCollector(false)
	c.OnHTML(".totalNum", func(e *colly.HTMLElement) {
		totalHouses = utils.IntFromText(e.Text)
	})
	c.OnHTML(".lastPage>span", func(e *colly.HTMLElement) {
		numPages = utils.IntFromText(e.Text)
	})

	if s.category.IsRent() {
		err = c.Post(listURL, chintaiFormData())
	} else {
		err = c.Visit(listURL)
	}
	if err != nil {
		return 0, 0, err
	}
	if numPages == 0 {
		return 0, 0, fmt.Errorf("page count not found on %s", listURL)
	}
	return totalHouses, numPages, nil
}

func (s *ListSpider) newCollector(async bool) *colly.Collector {
	opts := []colly.CollectorOption{
		colly.UserAgent(s.cfg.UserAgent),
		colly.AllowedDomains(allowedDomain),
		colly.AllowURLRevisit(),
	}
	if async {
		opts = append(opts, colly.Async(true))
	}
	c := colly.NewCollector(opts...)
	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: s.cfg.MaxConcurrency,
		Delay:       time.Duration(s.cfg.RateLimitMs) * time.Millisecond,
	})
	return c
}

// parseModule extracts the rows of one listing module. A module holds one
// building with either a room table (several links) or a single PR-style
// detail link.
func (s *ListSpider) parseModule(e *colly.HTMLElement) {
	dom := e.DOM

	isPR := dom.Find(".icon").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.Contains(sel.Text(), "PR")
	}).Length() > 0

	name := strings.TrimSpace(dom.Find(".bukkenName").First().Text())
	if name == "" {
		s.logger.Error("[list] listing house name parse failure on %s", e.Request.URL)
	}

	type itemRow struct {
		link      string
		price     *int
		manageFee *int
	}
	var items []itemRow

	itemSelector := ".raSpecRow.checkSelect"
	if s.category.IsRent() {
		itemSelector = ".prg-room.prg-building.checkSelect"
	}

	if rooms := dom.Find(itemSelector); rooms.Length() > 0 {
		rooms.Each(func(_ int, room *goquery.Selection) {
			row := itemRow{
				link:  room.Find(".detail>a").AttrOr("href", ""),
				price: utils.IntPtrFromText(room.Find(".priceLabel>span.num").First().Text()),
			}
			if s.category.IsRent() {
				fee := room.Find(".price").First().Text()
				if fee == "" {
					s.logger.Error("[list] manage fee format error for %s", name)
				}
				row.manageFee = utils.IntPtrFromText(fee)
			}
			items = append(items, row)
		})
	} else {
		// Single-link module, most likely a PR item.
		link := dom.Find("a.detailLink").AttrOr("href", "")
		if link == "" {
			s.logger.Error("[list] house link can not be found for %s", name)
			return
		}
		row := itemRow{link: link}
		if priceText := dom.Find(".price>span.num").First().Text(); priceText != "" {
			row.price = utils.IntPtrFromText(priceText)
		} else {
			s.logger.Error("[list] house price can not be found for %s", name)
		}
		if s.category.IsRent() {
			row.manageFee = utils.IntPtrFromText(dom.Find("td.price").First().Text())
		}
		items = append(items, row)
	}

	var parsed []*models.HouseRecord
	for _, item := range items {
		houseID, ok := houseIDFromLink(s.category, item.link, isPR)
		if !ok {
			s.logger.Error("[list] house id parse failure: %s", item.link)
			continue
		}
		parsed = append(parsed, &models.HouseRecord{
			HouseID:   houseID,
			IsPRItem:  isPR,
			Name:      name,
			Price:     item.price,
			ManageFee: item.manageFee,
			Category:  s.category,
			City:      s.city,
		})
	}

	s.mu.Lock()
	s.records = append(s.records, parsed...)
	s.mu.Unlock()
}

// chintaiFormData restricts the rental list to the 23 special wards.
func chintaiFormData() map[string]string {
	form := map[string]string{
		"cond[monthmoneyroom]":  "0",
		"cond[monthmoneyroomh]": "0",
		"cond[housearea]":       "0",
		"cond[houseareah]":      "0",
		"cond[walkminutesh]":    "0",
		"cond[houseageh]":       "0",
		"bukken_attr[category]": "chintai",
		"bukken_attr[pref]":     "13",
	}
	for code := 13101; code <= 13123; code++ {
		form[fmt.Sprintf("cond[city][%d]", code)] = fmt.Sprintf("%d", code)
	}
	return form
}
