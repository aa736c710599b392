package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// loadSQLite reads the loads table from a sqlite database. The catalog only
// ever reads; the database is somebody else's to write.
func loadSQLite(path string) ([]Load, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open loads database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT load_id, origin_city, origin_state, destination_city, destination_state,
		       pickup_datetime, delivery_datetime, equipment_type, loadboard_rate,
		       weight, commodity_type, num_of_pieces, miles, dimensions, notes
		FROM loads
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query loads table: %w", err)
	}
	defer rows.Close()

	var loads []Load
	for rows.Next() {
		var load Load
		err := rows.Scan(
			&load.LoadID,
			&load.OriginCity,
			&load.OriginState,
			&load.DestinationCity,
			&load.DestinationState,
			&load.PickupDatetime,
			&load.DeliveryDatetime,
			&load.EquipmentType,
			&load.LoadboardRate,
			&load.Weight,
			&load.CommodityType,
			&load.NumOfPieces,
			&load.Miles,
			&load.Dimensions,
			&load.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load row: %w", err)
		}
		loads = append(loads, load)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loads table: %w", err)
	}

	return loads, nil
}
