package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/loadbroker/backend/internal/observability"
	"github.com/loadbroker/backend/pkg/logger"
)

// BuildFromSource builds an index from a JSON, CSV or SQLite source. A
// missing source falls back to the embedded demo dataset so the service
// stays queryable; an unreadable or malformed source is an error the caller
// treats as startup-fatal.
func BuildFromSource(path string) (*Index, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn("Loads source missing, serving embedded demo catalog",
			zap.String("path", path),
			zap.Int("loads", len(demoLoads)),
		)
		observability.CatalogFallback.Inc()
		idx := NewIndex(demoLoads)
		observability.CatalogSize.Set(float64(idx.Size()))
		return idx, nil
	}

	var (
		loads []Load
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		loads, err = loadJSON(path)
	case ".csv":
		loads, err = loadCSV(path)
	case ".db", ".sqlite", ".sqlite3":
		loads, err = loadSQLite(path)
	default:
		return nil, fmt.Errorf("loads source must be .json, .csv or a sqlite database: %s", path)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Load catalog built",
		zap.String("path", path),
		zap.Int("loads", len(loads)),
	)

	idx := NewIndex(loads)
	observability.CatalogSize.Set(float64(idx.Size()))
	return idx, nil
}

func loadJSON(path string) ([]Load, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read loads file: %w", err)
	}

	var loads []Load
	if err := json.Unmarshal(data, &loads); err != nil {
		return nil, fmt.Errorf("loads file must contain a JSON array of loads: %w", err)
	}

	return loads, nil
}

func loadCSV(path string) ([]Load, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open loads file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read loads csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var loads []Load
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read loads csv: %w", err)
		}

		load, err := loadFromRow(columns, row)
		if err != nil {
			return nil, fmt.Errorf("loads csv line %d: %w", line, err)
		}
		loads = append(loads, load)
	}

	return loads, nil
}

func loadFromRow(columns map[string]int, row []string) (Load, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	load := Load{
		LoadID:           cell("load_id"),
		OriginCity:       cell("origin_city"),
		OriginState:      cell("origin_state"),
		DestinationCity:  cell("destination_city"),
		DestinationState: cell("destination_state"),
		PickupDatetime:   cell("pickup_datetime"),
		DeliveryDatetime: cell("delivery_datetime"),
		EquipmentType:    cell("equipment_type"),
		CommodityType:    cell("commodity_type"),
		Dimensions:       cell("dimensions"),
		Notes:            cell("notes"),
	}

	var err error
	if load.LoadboardRate, err = floatCell(cell("loadboard_rate")); err != nil {
		return load, fmt.Errorf("loadboard_rate: %w", err)
	}
	if load.Weight, err = floatCell(cell("weight")); err != nil {
		return load, fmt.Errorf("weight: %w", err)
	}
	if load.Miles, err = floatCell(cell("miles")); err != nil {
		return load, fmt.Errorf("miles: %w", err)
	}
	if load.NumOfPieces, err = intCell(cell("num_of_pieces")); err != nil {
		return load, fmt.Errorf("num_of_pieces: %w", err)
	}

	return load, nil
}

func floatCell(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func intCell(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
