// Package lifull crawls the LIFULL HOME'S listing portal. Everything in
// here is coupled to the site's markup and URL scheme and is expected to
// churn; the rest of the pipeline only consumes the parsed structs.
package lifull

import (
	"fmt"
	"regexp"
	"strings"

	"houspider/models"
)

const (
	baseURL       = "https://www.homes.co.jp"
	allowedDomain = "www.homes.co.jp"
)

// tokyoDistricts are the 23 special wards matched against addresses.
var tokyoDistricts = []string{
	"千代田区", "中央区", "港区", "新宿区", "文京区", "台東区", "墨田区", "江東区",
	"品川区", "目黒区", "大田区", "世田谷区", "渋谷区", "中野区", "杉並区", "豊島区",
	"北区", "荒川区", "板橋区", "練馬区", "足立区", "葛飾区", "江戸川区",
}

var (
	mansionIDRegexp = regexp.MustCompile(`/b-(\d+)/`)
	roomIDRegexp    = regexp.MustCompile(`room/([0-9a-z]+)`)
)

// ListURL returns the first list page for a crawl scope.
func ListURL(category models.Category, city models.City) string {
	if category.IsRent() {
		return fmt.Sprintf("%s/chintai/%s/list/", baseURL, city)
	}
	return fmt.Sprintf("%s/mansion/chuko/%s/list", baseURL, city)
}

// DetailURL returns the detail page for one house id.
func DetailURL(category models.Category, houseID string) string {
	if category.IsRent() {
		// PR rental rows carry building ids, regular rows carry room codes.
		if isAllDigits(houseID) {
			return fmt.Sprintf("%s/chintai/b-%s/", baseURL, houseID)
		}
		return fmt.Sprintf("%s/chintai/room/%s/", baseURL, houseID)
	}
	return fmt.Sprintf("%s/mansion/b-%s/?iskks=1", baseURL, houseID)
}

// houseIDFromLink extracts the house id from a listing link.
func houseIDFromLink(category models.Category, link string, isPR bool) (string, bool) {
	if category.IsRent() && !isPR {
		if m := roomIDRegexp.FindStringSubmatch(link); m != nil {
			return m[1], true
		}
		return "", false
	}
	if m := mansionIDRegexp.FindStringSubmatch(link); m != nil {
		return m[1], true
	}
	return "", false
}

// DistrictFromAddress returns the ward contained in an address, or "" when
// none (or more than one candidate resolves ambiguously to the first).
func DistrictFromAddress(address string) string {
	var found []string
	for _, d := range tokyoDistricts {
		if strings.Contains(address, d) {
			found = append(found, d)
		}
	}
	if len(found) == 0 {
		return ""
	}
	return found[0]
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
