package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// WriteCSV writes a header row followed by one row per passenger.
func WriteCSV(w io.Writer, passengers []*domain.Passenger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range passengers {
		if err := cw.Write(escapeFormulas(row(p))); err != nil {
			return fmt.Errorf("write csv row %s: %w", p.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// escapeFormulas prefixes cells that spreadsheets would evaluate as formulas.
func escapeFormulas(cells []string) []string {
	for i, c := range cells {
		if c != "" && strings.ContainsRune("=+-@\t\r", rune(c[0])) {
			cells[i] = "'" + c
		}
	}
	return cells
}
