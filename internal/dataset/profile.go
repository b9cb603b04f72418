package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ColumnProfile describes one column of a profiled table
type ColumnProfile struct {
	Name    string
	Type    string // "int", "float", "bool", "date", "string"
	NonNull int
}

// Profile summarizes the shape and column types of a tabular file
type Profile struct {
	Rows    int
	Columns []ColumnProfile
	Head    [][]string
}

// headRows is how many data rows the profile keeps as a preview
const headRows = 5

// dateLayouts are tried in order when inferring a date column
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// ProfileCSV reads a CSV stream and infers a per-column type profile.
// A column's type is the narrowest type every non-empty value satisfies,
// widening int -> float -> string as values disagree.
func ProfileCSV(r io.Reader) (*Profile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	types := make([]string, len(header))
	nonNull := make([]int, len(header))
	var head [][]string
	rows := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}

		rows++
		if len(head) < headRows {
			head = append(head, record)
		}

		for i, cell := range record {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			nonNull[i]++
			types[i] = widen(types[i], inferType(cell))
		}
	}

	columns := make([]ColumnProfile, len(header))
	for i, name := range header {
		colType := types[i]
		if colType == "" {
			colType = "string"
		}
		columns[i] = ColumnProfile{Name: name, Type: colType, NonNull: nonNull[i]}
	}

	return &Profile{Rows: rows, Columns: columns, Head: head}, nil
}

// inferType classifies a single non-empty cell
func inferType(cell string) string {
	if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return "int"
	}
	if _, err := strconv.ParseFloat(cell, 64); err == nil {
		return "float"
	}
	if _, err := strconv.ParseBool(cell); err == nil {
		return "bool"
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, cell); err == nil {
			return "date"
		}
	}
	return "string"
}

// widen merges the type seen so far with a newly observed cell type
func widen(current, observed string) string {
	switch {
	case current == "" || current == observed:
		return observed
	case current == "int" && observed == "float",
		current == "float" && observed == "int":
		return "float"
	default:
		return "string"
	}
}

// Render writes the profile report in the fixed console layout
func (p *Profile) Render(w io.Writer) {
	fmt.Fprintf(w, "Dataset shape: (%d, %d)\n", p.Rows, len(p.Columns))

	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	fmt.Fprintf(w, "Columns: [%s]\n", strings.Join(names, ", "))

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w, "Column types:")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	for _, c := range p.Columns {
		fmt.Fprintf(w, "%s: %s (%d non-null)\n", c.Name, c.Type, c.NonNull)
	}

	if len(p.Head) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Head:")
		fmt.Fprintln(w, strings.Join(names, ","))
		for _, row := range p.Head {
			fmt.Fprintln(w, strings.Join(row, ","))
		}
	}
}
