package storage

import (
	"database/sql"
	"fmt"

	"houspider/models"
)

// HouseInfoRepo persists the extracted detail-page attributes.
type HouseInfoRepo struct {
	db *sql.DB
}

// UpsertHouseInfo merges one sale detail row, overwriting every attribute.
func (r *HouseInfoRepo) UpsertHouseInfo(d *models.ParsedHouseDetail) error {
	if _, err := r.db.Exec(`
		INSERT INTO house_info (
			house_id, name, room, price, address, district,
			money_kyoueki, money_shuuzen, build_date, age,
			window_angle, house_area, balcony_area, has_balcony,
			floor_plan, feature_comment, register_date,
			has_elevator, note, has_special_note,
			unit_num, floor_num, num_total_floor,
			structure, land_usage, land_position, land_right,
			land_money_shakuchi, land_term, land_kokudoho,
			other_fee_details, total_other_fee, manage_details,
			latest_rent_status, trade_method, num_null_fields, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, NOW())
		ON CONFLICT (house_id) DO UPDATE SET
			name = EXCLUDED.name, room = EXCLUDED.room, price = EXCLUDED.price,
			address = EXCLUDED.address, district = EXCLUDED.district,
			money_kyoueki = EXCLUDED.money_kyoueki, money_shuuzen = EXCLUDED.money_shuuzen,
			build_date = EXCLUDED.build_date, age = EXCLUDED.age,
			window_angle = EXCLUDED.window_angle, house_area = EXCLUDED.house_area,
			balcony_area = EXCLUDED.balcony_area, has_balcony = EXCLUDED.has_balcony,
			floor_plan = EXCLUDED.floor_plan, feature_comment = EXCLUDED.feature_comment,
			register_date = EXCLUDED.register_date, has_elevator = EXCLUDED.has_elevator,
			note = EXCLUDED.note, has_special_note = EXCLUDED.has_special_note,
			unit_num = EXCLUDED.unit_num, floor_num = EXCLUDED.floor_num,
			num_total_floor = EXCLUDED.num_total_floor, structure = EXCLUDED.structure,
			land_usage = EXCLUDED.land_usage, land_position = EXCLUDED.land_position,
			land_right = EXCLUDED.land_right, land_money_shakuchi = EXCLUDED.land_money_shakuchi,
			land_term = EXCLUDED.land_term, land_kokudoho = EXCLUDED.land_kokudoho,
			other_fee_details = EXCLUDED.other_fee_details, total_other_fee = EXCLUDED.total_other_fee,
			manage_details = EXCLUDED.manage_details, latest_rent_status = EXCLUDED.latest_rent_status,
			trade_method = EXCLUDED.trade_method, num_null_fields = EXCLUDED.num_null_fields,
			updated_at = NOW()
	`,
		d.HouseID, nullString(d.Name), nullString(d.Room), d.Price,
		nullString(d.Address), d.District,
		d.MoneyKyoueki, d.MoneyShuuzen, nullString(d.BuildDate), nullInt(d.Age),
		nullString(d.WindowAngle), d.HouseArea, d.BalconyArea, d.HasBalcony,
		nullString(d.FloorPlan), nullString(d.FeatureComment), nullString(d.RegisterDate),
		d.HasElevator, nullString(d.Note), d.HasSpecialNote,
		d.UnitNum, nullInt(d.FloorNum), nullInt(d.NumTotalFloor),
		nullString(d.Structure), nullString(d.LandUsage), nullString(d.LandPosition),
		nullString(d.LandRight), nullInt(d.LandMoneyShakuchi), nullString(d.LandTerm),
		nullString(d.LandKokudoho),
		nullString(d.OtherFeeDetails), d.TotalOtherFee, nullString(d.ManageDetails),
		nullString(d.LatestRentStatus), nullString(d.TradeMethod), d.NumNullFields,
	); err != nil {
		return fmt.Errorf("house_info: upsert %s: %w", d.HouseID, err)
	}

	return r.replaceStations(d.HouseID, d.Stations)
}

// UpsertRentInfo merges one rental detail row.
func (r *HouseInfoRepo) UpsertRentInfo(d *models.ParsedRentDetail) error {
	if _, err := r.db.Exec(`
		INSERT INTO rent_info (
			house_id, name, room, rent, manage_fee,
			deposit_months, gift_months, guarantee_months, shokyaku_months,
			address, district, build_date, age, num_null_fields, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (house_id) DO UPDATE SET
			name = EXCLUDED.name, room = EXCLUDED.room,
			rent = EXCLUDED.rent, manage_fee = EXCLUDED.manage_fee,
			deposit_months = EXCLUDED.deposit_months, gift_months = EXCLUDED.gift_months,
			guarantee_months = EXCLUDED.guarantee_months, shokyaku_months = EXCLUDED.shokyaku_months,
			address = EXCLUDED.address, district = EXCLUDED.district,
			build_date = EXCLUDED.build_date, age = EXCLUDED.age,
			num_null_fields = EXCLUDED.num_null_fields, updated_at = NOW()
	`,
		d.HouseID, nullString(d.Name), nullString(d.Room), d.Rent, d.ManageFee,
		d.DepositMonths, d.GiftMonths, d.GuaranteeMonths, d.ShokyakuMonths,
		nullString(d.Address), d.District, nullString(d.BuildDate), nullInt(d.Age),
		d.NumNullFields,
	); err != nil {
		return fmt.Errorf("rent_info: upsert %s: %w", d.HouseID, err)
	}

	return r.replaceStations(d.HouseID, d.Stations)
}

func (r *HouseInfoRepo) replaceStations(houseID string, stations []models.StationAccess) error {
	for _, st := range stations {
		if _, err := r.db.Exec(`
			INSERT INTO stations_near_house (house_id, line_name, station_name, walk_minutes)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (house_id, line_name, station_name) DO UPDATE SET
				walk_minutes = EXCLUDED.walk_minutes
		`, houseID, st.Line, st.Station, st.WalkMinutes); err != nil {
			return fmt.Errorf("stations_near_house: upsert %s %s/%s: %w",
				houseID, st.Line, st.Station, err)
		}
	}
	return nil
}
