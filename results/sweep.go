package results

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// SweepRow is one grid point's aggregate outcome in a trait sweep.
type SweepRow struct {
	Species   string  `csv:"species"`
	Trait     string  `csv:"trait"`
	Value     float64 `csv:"value"`
	MeanFinal float64 `csv:"mean_final_popu"`
	StdDev    float64 `csv:"stddev_final_popu"`
	Extinct   float64 `csv:"extinct_fraction"`
	Trials    int     `csv:"trials"`
}

// SweepLog appends sweep rows to one CSV file as grid points finish, so
// an interrupted sweep keeps the points already computed.
type SweepLog struct {
	file          *os.File
	headerWritten bool
}

// NewSweepLog creates the sweep CSV at path, creating parent directories
// as needed.
func NewSweepLog(path string) (*SweepLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}

	return &SweepLog{file: f}, nil
}

// Append writes one row, with headers on the first write.
func (sl *SweepLog) Append(row SweepRow) error {
	records := []SweepRow{row}

	if !sl.headerWritten {
		if err := gocsv.Marshal(records, sl.file); err != nil {
			return fmt.Errorf("writing sweep row: %w", err)
		}
		sl.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, sl.file); err != nil {
		return fmt.Errorf("writing sweep row: %w", err)
	}
	return nil
}

// Close flushes and closes the sweep file.
func (sl *SweepLog) Close() error {
	return sl.file.Close()
}
