package pipeline

import "github.com/agrisense/field-data-etl/internal/domain"

// Params is the immutable per-run configuration shared by both pipelines:
// what to query, which columns to repair, where the weather CSVs live, and
// the ordered measurement patterns.
type Params struct {
	// Field pipeline.
	FieldQuery      string
	SwapColumns     [2]string
	CategoryColumn  string
	AbsoluteColumn  string
	CropCorrections map[string]string
	JoinKey         string

	// Weather pipeline.
	StationMappingURL string
	MessagesURL       string
	Patterns          []domain.PatternSpec
	StationColumn     string
	MessageColumn     string
	MeasurementColumn string
	ValueColumn       string
}

// DefaultParams returns the production survey defaults. The swap pair and
// crop corrections track known defects in the upstream database; the patterns
// cover the three message formats the stations emit.
func DefaultParams() Params {
	return Params{
		FieldQuery: `
			SELECT * FROM geographic_features
			LEFT JOIN weather_features USING (Field_ID)
			LEFT JOIN soil_and_crop_features USING (Field_ID)
			LEFT JOIN farm_management_features USING (Field_ID)`,
		SwapColumns:    [2]string{"Annual_yield", "Crop_type"},
		CategoryColumn: "Crop_type",
		AbsoluteColumn: "Elevation",
		CropCorrections: map[string]string{
			"cassaval": "cassava",
			"wheatn":   "wheat",
			"teaa":     "tea",
		},
		JoinKey: "Field_ID",

		StationMappingURL: "https://raw.githubusercontent.com/Explore-AI/Public-Data/master/Maji_Ndogo/weather_data_field_mapping.csv",
		MessagesURL:       "https://raw.githubusercontent.com/Explore-AI/Public-Data/master/Maji_Ndogo/weather_station_data.csv",
		Patterns: []domain.PatternSpec{
			{Name: "Rainfall", Expr: `(\d+(?:\.\d+)?)\s?mm`},
			{Name: "Temperature", Expr: `(\d+(?:\.\d+)?)\s?C`},
			{Name: "Pollution_level", Expr: `=\s*(-?\d+(?:\.\d+)?)|Pollution at\s*(-?\d+(?:\.\d+)?)`},
		},
		StationColumn:     "Weather_station_ID",
		MessageColumn:     "Message",
		MeasurementColumn: "Measurement",
		ValueColumn:       "Value",
	}
}
