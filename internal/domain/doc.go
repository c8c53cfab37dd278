// Package domain models agricultural field-survey data and the transforms
// that normalize it.
//
// # Data Sources
//
// Field measurements come from the survey SQL database: one row per field,
// joined across the geographic, weather, soil/crop, and farm-management
// feature tables on "Field_ID". Two upstream defects are corrected here:
//
//   - The "Annual_yield" and "Crop_type" column labels are exchanged in the
//     source database, so the values under each belong to the other. The swap
//     transform exchanges the labels back without touching any other column.
//   - "Elevation" carries a sign error for some fields (negative meters);
//     absolute value is the agreed correction. Crop names contain known
//     misspellings ("cassaval", "wheatn", "teaa") remapped by configuration.
//
// Weather-station telemetry arrives as free-text messages, one per row:
//
//	"Temperature: 27.5C"
//	"Rainfall measured at 10 mm"
//	"Pollution at 12.2"
//
// Measurements are recovered by matching an ordered set of named regular
// expressions against each message; the first pattern that matches wins and
// its first participating capture group is the numeric value.
//
// The package owns no I/O. Ingestion collaborators produce Tables; every
// transform here consumes a Table and produces another.
package domain
