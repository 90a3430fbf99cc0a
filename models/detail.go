package models

// StationAccess is one nearby-station entry on a detail page.
type StationAccess struct {
	Line        string
	Station     string
	WalkMinutes int
}

// ParsedHouseDetail is the stable shape the pipeline consumes for a sale
// detail page. The site-coupled extraction that fills it lives in
// scraper/lifull and is expected to churn; this struct is not.
//
// String pointers are nil when the field was absent from the page;
// NumNullFields counts fields that were unexpectedly missing.
type ParsedHouseDetail struct {
	HouseID string
	Name    *string
	Room    *string
	Price   int
	Address *string
	District string

	MoneyKyoueki int
	MoneyShuuzen int

	Stations []StationAccess

	BuildDate *string // YYYY-MM-DD
	Age       *int

	WindowAngle    *string
	HouseArea      float64
	BalconyArea    float64
	HasBalcony     bool
	FloorPlan      *string
	FeatureComment *string
	RegisterDate   *string

	HasElevator    bool
	Note           *string
	HasSpecialNote bool

	UnitNum       int
	FloorNum      *int
	NumTotalFloor *int

	Structure        *string
	LandUsage        *string
	LandPosition     *string
	LandRight        *string
	LandMoneyShakuchi *int
	LandTerm         *string
	LandKokudoho     *string

	OtherFeeDetails *string
	TotalOtherFee   int
	ManageDetails   *string
	LatestRentStatus *string
	TradeMethod      *string

	NumNullFields int
}

// ParsedRentDetail is the stable shape for a rental detail page.
type ParsedRentDetail struct {
	HouseID string
	Name    *string
	Room    *string

	Rent      float64
	ManageFee float64

	DepositMonths   float64
	GiftMonths      float64
	GuaranteeMonths float64
	ShokyakuMonths  float64

	Address  *string
	District string

	Stations []StationAccess

	BuildDate *string // YYYY-MM-DD
	Age       *int

	NumNullFields int
}

// FetchFailure is the structured failure record a detail fetch produces
// instead of surfacing transport errors into the reconciliation core.
type FetchFailure struct {
	HouseID string
	Reason  string
}
