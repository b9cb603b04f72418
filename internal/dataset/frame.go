package dataset

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// ReadFrame parses raw CSV bytes into a dataframe. Header cells are trimmed of
// surrounding whitespace first; the published weekly files occasionally carry
// padded column names.
func ReadFrame(data []byte) (dataframe.DataFrame, error) {
	trimmed := trimHeader(data)

	df := dataframe.ReadCSV(bytes.NewReader(trimmed),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse csv: %w", df.Err)
	}
	return df, nil
}

// trimHeader trims whitespace from each cell of the first CSV line
func trimHeader(data []byte) []byte {
	idx := bytes.IndexByte(data, '\n')
	if idx < 0 {
		return data
	}

	header := string(data[:idx])
	header = strings.TrimSuffix(header, "\r")
	cells := strings.Split(header, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(cells, ","))
	buf.WriteByte('\n')
	buf.Write(data[idx+1:])
	return buf.Bytes()
}
