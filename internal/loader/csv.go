// Package loader parses HDX subnational rainfall CSV exports into domain
// observations. It is the fallible edge of the system: the feature pipeline
// itself never touches files, paths, or malformed text.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
)

// Column headers of an HDX rainfall export. Matching is case-insensitive
// because exports vary between "PCODE" and "pcode"; extra columns (rfh_avg,
// r1h, ...) are ignored.
const (
	colDate     = "date"
	colPCode    = "pcode"
	colRainfall = "rfh"
)

// dateFormats accepted for the date column, tried in order.
var dateFormats = []string{"2006-01-02", time.RFC3339}

// Result is the outcome of parsing one source file.
type Result struct {
	Observations []domain.Observation
	// Skipped counts rows dropped for an empty PCODE or an empty or
	// non-finite rainfall value.
	// Unparseable values are errors instead: they indicate a broken export,
	// not a routine gap in the data.
	Skipped int
}

// LoadFile opens and parses the CSV at path.
func LoadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open rainfall csv: %w", err)
	}
	defer f.Close()

	res, err := Load(f)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}

// Load parses an HDX rainfall CSV from r. The first row must be a header
// containing date, PCODE, and rfh columns in any order. An HXL tag row
// (cells starting with '#', e.g. "#date,#adm2+code,#indicator+rfh")
// immediately after the header is skipped.
func Load(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}

	dateIdx, pcodeIdx, rainIdx, err := locateColumns(header)
	if err != nil {
		return Result{}, err
	}
	width := max(dateIdx, pcodeIdx, rainIdx) + 1

	var res Result
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		if len(record) > 0 && strings.HasPrefix(record[0], "#") {
			continue // HXL tag row
		}
		if len(record) < width {
			return Result{}, fmt.Errorf("line %d: %d columns, want at least %d", line, len(record), width)
		}

		pcode := strings.TrimSpace(record[pcodeIdx])
		rainStr := strings.TrimSpace(record[rainIdx])
		if pcode == "" || rainStr == "" {
			res.Skipped++
			continue
		}

		date, err := parseDate(record[dateIdx])
		if err != nil {
			return Result{}, fmt.Errorf("line %d: %w", line, err)
		}

		rainfall, err := strconv.ParseFloat(rainStr, 64)
		if err != nil {
			return Result{}, fmt.Errorf("line %d: parse rainfall %q: %w", line, rainStr, err)
		}
		// ParseFloat accepts "NaN" and "Inf" literals. A non-finite value
		// would poison the incremental rolling sums for every later row of
		// the key, so treat it like a missing reading.
		if math.IsNaN(rainfall) || math.IsInf(rainfall, 0) {
			res.Skipped++
			continue
		}

		res.Observations = append(res.Observations, domain.Observation{
			PCode:    pcode,
			Date:     date,
			Rainfall: rainfall,
		})
	}

	return res, nil
}

func locateColumns(header []string) (dateIdx, pcodeIdx, rainIdx int, err error) {
	dateIdx, pcodeIdx, rainIdx = -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colDate:
			dateIdx = i
		case colPCode:
			pcodeIdx = i
		case colRainfall:
			rainIdx = i
		}
	}
	var missing []string
	if dateIdx < 0 {
		missing = append(missing, colDate)
	}
	if pcodeIdx < 0 {
		missing = append(missing, "PCODE")
	}
	if rainIdx < 0 {
		missing = append(missing, colRainfall)
	}
	if len(missing) > 0 {
		return 0, 0, 0, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return dateIdx, pcodeIdx, rainIdx, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}
