// Package domain models a personal coffee-tasting log and the map layers
// derived from it.
//
// # Data Source
//
// Tastings are submitted through a web form that appends one row per cup to
// a spreadsheet. The sheet is published as CSV (or HTML) and read by the
// source adapters. Column names drift over time: trailing spaces, casing and
// partial renames all occur in real exports, so every logical field is
// resolved through a list of accepted header variants. See [Row.Pick].
//
// # Records
//
// A row is accepted only when both latitude and longitude parse as finite
// numbers. A comma decimal separator is tolerated ("41,7" reads as 41.7).
// Accepted rows become immutable [Record] values carrying the true farm
// coordinate and a copy rounded to 5 decimal places. The rounded pair is the
// join key between point features and route features: the map engine
// compares properties with exact equality, so both sides must be rounded the
// same way.
//
// # Taxonomy
//
// Free text is classified by ordered rule lists, first match wins:
//
//	Process:  honey | anaerobic | washed | natural | experimental | other
//	Brew:     espresso, v60, kalita, aeropress, batch brew, french press,
//	          syphon, chemex, cold brew, ibrik, clever (or the text itself)
//	Country:  41 producing-country matchers (English and Russian stems)
//
// Patterns accept both English and Russian spellings because the log is
// kept in both languages.
//
// # Cities
//
// Roaster and consumption cities are geocoded once per distinct name and
// stored in a [CityMap]. Every city name is reduced to one canonical key
// (whitespace collapsed, lower-cased) so "Tbilisi" and "tbilisi " merge into
// the same aggregate marker.
//
// # Achievements
//
// [ComputeMetrics] scans all records once into a [Snapshot]. The fixed
// achievement catalog is a list of predicates over that snapshot with a
// progress ratio and an optional prerequisite. Nothing is stored; results
// are recomputed whenever the dataset changes. See [Evaluate].
package domain
