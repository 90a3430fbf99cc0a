package lifull

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"houspider/models"
	"houspider/utils"
)

var (
	buildYMRegexp  = regexp.MustCompile(`(\d+)年(\d+)月`)
	buildAgeRegexp = regexp.MustCompile(`築(\d+)年`)
	newBuildRegexp = regexp.MustCompile(`新築`)
	floorRegexp    = regexp.MustCompile(`(\d+)階 / (\d+)階建`)
)

// fieldReader tracks how many fields were unexpectedly missing while
// walking a detail page.
type fieldReader struct {
	logger  *utils.Logger
	houseID string
	nulls   int
}

// strip returns the trimmed text of the first match, counting a null when
// the selection is empty.
func (r *fieldReader) strip(sel *goquery.Selection) *string {
	if s, ok := text(sel); ok {
		return &s
	}
	r.nulls++
	return nil
}

// stripQuiet is strip without the null accounting, for fields that are
// legitimately absent on many pages.
func (r *fieldReader) stripQuiet(sel *goquery.Selection) *string {
	if s, ok := text(sel); ok {
		return &s
	}
	return nil
}

func text(sel *goquery.Selection) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	s := strings.TrimSpace(sel.First().Text())
	if s == "" {
		return "", false
	}
	return s, true
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// buildDate parses "1998年3月築 築27年" style strings into a date and age.
func (r *fieldReader) buildDate(raw string, newBuildIsZeroAge bool) (buildDate *string, age *int) {
	if m := buildYMRegexp.FindStringSubmatch(raw); m != nil {
		d := fmt.Sprintf("%04d-%02d-01", utils.IntFromText(m[1]), utils.IntFromText(m[2]))
		buildDate = &d
	} else {
		r.nulls++
		r.logger.Error("%s: error parse build_date %q", r.houseID, raw)
	}

	if m := buildAgeRegexp.FindStringSubmatch(raw); m != nil {
		n := utils.IntFromText(m[1])
		age = &n
	} else if newBuildIsZeroAge && newBuildRegexp.MatchString(raw) {
		zero := 0
		age = &zero
	} else {
		r.nulls++
		r.logger.Error("%s: error parse build_age %q", r.houseID, raw)
	}
	return buildDate, age
}

func (r *fieldReader) district(address string) string {
	d := DistrictFromAddress(address)
	if d == "" {
		r.logger.Error("%s: error parse district %q", r.houseID, address)
	}
	return d
}

func stations(sel *goquery.Selection) []models.StationAccess {
	var out []models.StationAccess
	sel.Each(func(_ int, s *goquery.Selection) {
		fields := strings.Fields(strings.TrimSpace(s.Text()))
		if len(fields) != 3 {
			return
		}
		if !strings.Contains(fields[2], "徒歩") {
			return
		}
		out = append(out, models.StationAccess{
			Line:        fields[0],
			Station:     fields[1],
			WalkMinutes: utils.IntFromText(fields[2]),
		})
	})
	return out
}

// ParseHouseDetail extracts a sale detail page into the stable struct the
// pipeline consumes. Missing fields are logged and counted, never fatal.
func ParseHouseDetail(houseID string, doc *goquery.Document, logger *utils.Logger) *models.ParsedHouseDetail {
	r := &fieldReader{logger: logger, houseID: houseID}
	d := &models.ParsedHouseDetail{HouseID: houseID}

	building := doc.Find(".mod-buildingName")
	d.Name = r.stripQuiet(building.Find(".bukkenName"))
	d.Room = r.stripQuiet(building.Find(".bukkenRoom"))

	top := doc.Find(".mod-detailTopSale")
	d.Price = utils.IntFromText(top.Find("#chk-bkc-moneyroom").First().Text())
	d.Address = r.strip(top.Find("#chk-bkc-fulladdress"))
	d.District = r.district(deref(d.Address))

	d.MoneyKyoueki = utils.IntFromText(deref(r.strip(top.Find("#chk-bkc-moneykyoueki"))))
	d.MoneyShuuzen = utils.IntFromText(deref(r.strip(top.Find("#chk-bkc-moneyshuuzen"))))

	d.Stations = stations(top.Find("#chk-bkc-fulltraffic .traffic"))

	d.BuildDate, d.Age = r.buildDate(deref(r.stripQuiet(top.Find("#chk-bkc-kenchikudate"))), false)

	d.WindowAngle = r.strip(top.Find("#chk-bkc-windowangle"))
	d.HouseArea = utils.FloatFromText(deref(r.strip(top.Find("#chk-bkc-housearea"))))
	d.BalconyArea = utils.FloatFromText(deref(r.strip(top.Find("#chk-bkc-balconyarea"))))
	d.HasBalcony = d.BalconyArea > 0
	d.FloorPlan = r.strip(top.Find("#chk-bkc-marodi"))
	d.FeatureComment = r.stripQuiet(top.Find("#chk-bkp-featurecomment"))
	if reg, ok := text(top.Find("#chk-bkh-newdate")); ok {
		regDate := strings.ReplaceAll(reg, "/", "-")
		d.RegisterDate = &regDate
	}

	doc.Find(".mod-bukkenNotes tr").Each(func(_ int, tr *goquery.Selection) {
		switch strings.TrimSpace(tr.Find("th").First().Text()) {
		case "設備・サービス":
			tr.Find("ul.normalEquipment li").Each(func(_ int, li *goquery.Selection) {
				equipment := strings.TrimSpace(li.Text())
				if i := strings.IndexByte(equipment, '\n'); i >= 0 {
					equipment = equipment[:i]
				}
				if equipment == "エレベーター" {
					d.HasElevator = true
				}
			})
		case "備考":
			note := strings.TrimSpace(tr.Find("td#chk-bkf-biko").Text())
			if note != "" {
				d.Note = &note
				d.HasSpecialNote = strings.Contains(note, "告知事項")
			}
		}
	})

	spec := doc.Find(".mod-bukkenSpecDetail")
	d.UnitNum = utils.IntFromText(spec.Find("#chk-bkd-allunit").First().Text())

	if floors, ok := text(spec.Find("#chk-bkd-housekai")); ok {
		if m := floorRegexp.FindStringSubmatch(floors); m != nil {
			fn := utils.IntFromText(m[1])
			tf := utils.IntFromText(m[2])
			d.FloorNum = &fn
			d.NumTotalFloor = &tf
		} else {
			r.nulls += 2
		}
	} else {
		r.nulls += 2
	}

	d.Structure = r.strip(spec.Find("#chk-bkd-housekouzou"))
	d.LandUsage = r.strip(spec.Find("#chk-bkd-landyouto"))
	d.LandPosition = r.strip(spec.Find("#chk-bkd-landchisei"))
	d.LandRight = r.strip(spec.Find("#chk-bkd-landright"))
	if shakuchi, ok := text(spec.Find("#chk-bkd-moneyshakuchi")); ok {
		n := utils.IntFromText(shakuchi)
		d.LandMoneyShakuchi = &n
	}
	d.LandTerm = r.stripQuiet(spec.Find("#chk-bkd-conterm"))
	d.LandKokudoho = r.strip(spec.Find("#chk-bkd-landkokudoho"))

	d.OtherFeeDetails = r.stripQuiet(spec.Find("#chk-bkd-moneyother"))
	if d.OtherFeeDetails != nil {
		for _, fee := range strings.Split(*d.OtherFeeDetails, "円") {
			d.TotalOtherFee += utils.IntFromText(fee)
		}
	}

	d.ManageDetails = r.strip(spec.Find("#chk-bkd-management"))
	d.LatestRentStatus = r.strip(spec.Find("#chk-bkd-genkyo .genkyoText"))
	d.TradeMethod = r.strip(spec.Find("#chk-bkd-taiyou"))

	d.NumNullFields = r.nulls
	return d
}

// ParseRentDetail extracts a rental detail page.
func ParseRentDetail(houseID string, doc *goquery.Document, logger *utils.Logger) *models.ParsedRentDetail {
	r := &fieldReader{logger: logger, houseID: houseID}
	d := &models.ParsedRentDetail{HouseID: houseID}

	top := doc.Find(".mod-detailTopRent")
	d.Name = r.stripQuiet(top.Find(".bukkenName"))
	d.Room = r.stripQuiet(top.Find(".bukkenRoom"))

	money := top.Find(".price #chk-bkc-moneyroom").First()
	d.Rent = utils.FloatFromText(money.Find(".num>span").First().Text())
	// The manage fee sits in the element's own text, after the rent span.
	fee := money.Clone()
	fee.Find(".num").Remove()
	d.ManageFee = utils.FloatFromText(fee.Text())

	d.DepositMonths, d.GiftMonths = splitMonthPair(
		deref(r.stripQuiet(top.Find("#chk-bkc-moneyshikirei"))))
	d.GuaranteeMonths, d.ShokyakuMonths = splitMonthPair(
		deref(r.stripQuiet(top.Find("#chk-bkc-moneyhoshoukyaku"))))

	d.Address = r.strip(top.Find("#chk-bkc-fulladdress"))
	d.District = r.district(deref(d.Address))

	d.Stations = stations(top.Find("#chk-bkc-fulltraffic>p"))

	d.BuildDate, d.Age = r.buildDate(deref(r.stripQuiet(top.Find("#chk-bkc-kenchikudate"))), true)

	d.NumNullFields = r.nulls
	return d
}

// splitMonthPair parses "1ヶ月 / 1ヶ月" deposit/gift style pairs.
func splitMonthPair(raw string) (first, second float64) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return 0, 0
	}
	return utils.FloatFromText(parts[0]), utils.FloatFromText(parts[1])
}
