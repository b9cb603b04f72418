// Package exporter writes the report artifacts: plain CSV files with
// optional UTF-8 BOM for Excel, the station annual CSV, the station
// summary workbook, and the prize name listing.
package exporter
