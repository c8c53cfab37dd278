// Command genfixtures generates a sample field-survey SQLite database and
// weather-station CSV files so the ETL can be exercised locally without
// access to the production sources. The fixtures reproduce the quirks the
// pipeline corrects: the Annual_yield/Crop_type label exchange, negative
// elevations, misspelled crop names, and CSV index-artifact columns.
//
// Usage:
//
//	go run ./cmd/genfixtures -db data/field_survey.db -csv-dir data/fixtures
package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

// seed is fixed so repeated runs produce identical fixtures.
const seed = 20260302

var crops = []string{"cassaval", "tea", "wheatn", "maize", "banana", "teaa", "potato"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dbPath := flag.String("db", "data/field_survey.db", "output path for the SQLite database")
	csvDir := flag.String("csv-dir", "data/fixtures", "output directory for the weather CSV files")
	fields := flag.Int("fields", 50, "number of survey fields")
	messages := flag.Int("messages", 200, "number of weather-station messages")
	stations := flag.Int("stations", 5, "number of weather stations")
	flag.Parse()

	rng := rand.New(rand.NewSource(seed))

	if err := writeDatabase(*dbPath, *fields, rng); err != nil {
		return err
	}
	if err := writeMappingCSV(filepath.Join(*csvDir, "weather_data_field_mapping.csv"), *fields, *stations, rng); err != nil {
		return err
	}
	if err := writeMessagesCSV(filepath.Join(*csvDir, "weather_station_data.csv"), *messages, *stations, rng); err != nil {
		return err
	}

	fmt.Printf("wrote %s and %s/*.csv (%d fields, %d messages)\n", *dbPath, *csvDir, *fields, *messages)
	return nil
}

func writeDatabase(path string, fields int, rng *rand.Rand) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	schema := `
	CREATE TABLE geographic_features (
		Field_ID  INTEGER PRIMARY KEY,
		Elevation REAL,
		Latitude  REAL,
		Longitude REAL,
		Slope     REAL
	);
	CREATE TABLE weather_features (
		Field_ID          INTEGER PRIMARY KEY,
		Rainfall          REAL,
		Min_temperature_C REAL,
		Max_temperature_C REAL
	);
	CREATE TABLE soil_and_crop_features (
		Field_ID       INTEGER PRIMARY KEY,
		Soil_type      TEXT,
		pH             REAL,
		Pollution_level REAL,
		Plot_size      REAL,
		Annual_yield   TEXT,
		Crop_type      REAL
	);
	CREATE TABLE farm_management_features (
		Field_ID   INTEGER PRIMARY KEY,
		Irrigation INTEGER
	);`
	if _, err := db.Exec(schema); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for id := 1; id <= fields; id++ {
		// every fourth field has the elevation sign defect
		elevation := 100 + rng.Float64()*900
		if id%4 == 0 {
			elevation = -elevation
		}
		if _, err := tx.Exec(
			`INSERT INTO geographic_features VALUES (?, ?, ?, ?, ?)`,
			id, elevation, -30+rng.Float64()*10, 25+rng.Float64()*10, rng.Float64()*15,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO weather_features VALUES (?, ?, ?, ?)`,
			id, rng.Float64()*1500, 5+rng.Float64()*10, 20+rng.Float64()*15,
		); err != nil {
			return err
		}
		// Annual_yield holds the crop name and Crop_type the yield number:
		// the upstream label exchange the swap transform undoes.
		if _, err := tx.Exec(
			`INSERT INTO soil_and_crop_features VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, "Loam", 5.5+rng.Float64()*2, rng.Float64(), 0.5+rng.Float64()*4,
			crops[rng.Intn(len(crops))], rng.Float64()*2,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO farm_management_features VALUES (?, ?)`,
			id, rng.Intn(2),
		); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return db.Close()
}

func writeMappingCSV(path string, fields, stations int, rng *rand.Rand) error {
	records := [][]string{{"Unnamed: 0", "Field_ID", "Weather_station"}}
	for id := 1; id <= fields; id++ {
		records = append(records, []string{
			strconv.Itoa(id - 1),
			strconv.Itoa(id),
			strconv.Itoa(rng.Intn(stations)),
		})
	}
	return writeCSV(path, records)
}

func writeMessagesCSV(path string, messages, stations int, rng *rand.Rand) error {
	records := [][]string{{"Weather_station_ID", "Message"}}
	for i := 0; i < messages; i++ {
		station := strconv.Itoa(rng.Intn(stations))
		var message string
		switch rng.Intn(4) {
		case 0:
			message = fmt.Sprintf("Temperature: %.1fC", 10+rng.Float64()*25)
		case 1:
			message = fmt.Sprintf("Rainfall measured at %d mm", rng.Intn(120))
		case 2:
			message = fmt.Sprintf("Pollution level = %.2f", rng.Float64()*20)
		default:
			message = "Routine system check"
		}
		records = append(records, []string{station, message})
	}
	return writeCSV(path, records)
}

func writeCSV(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return f.Close()
}
