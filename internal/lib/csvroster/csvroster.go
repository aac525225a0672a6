// Package csvroster reads guest lists exported from spreadsheets and writes
// the door roster back out.
package csvroster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
)

var (
	ErrNoRows       = errors.New("csv must have a header row and at least one data row")
	ErrNoNameColumn = errors.New("csv must have a 'name' column")
)

// Row is one imported guest. Category is never empty.
type Row struct {
	Name     string
	Phone    string
	Email    string
	Category string
}

type columns struct {
	name, phone, email, category int
}

// Parse reads a guest list. The header is matched case-insensitively:
// "name" is required, "phone"/"phone number", "email"/"email address" and
// "category"/"type" are optional. Rows without a name are skipped.
func Parse(r io.Reader) ([]Row, error) {
	const op = "csvroster.Parse"

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoRows)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cols := headerColumns(header)
	if cols.name < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoNameColumn)
	}

	var (
		rows []Row
		seen int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		seen++

		name := field(record, cols.name)
		if name == "" {
			continue
		}

		category := field(record, cols.category)
		if category == "" {
			category = models.CategoryRegular
		}

		rows = append(rows, Row{
			Name:     name,
			Phone:    field(record, cols.phone),
			Email:    field(record, cols.email),
			Category: category,
		})
	}

	if seen == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoRows)
	}

	return rows, nil
}

func headerColumns(header []string) columns {
	cols := columns{name: -1, phone: -1, email: -1, category: -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch h {
		case "name":
			if cols.name < 0 {
				cols.name = i
			}
		case "phone", "phone number":
			if cols.phone < 0 {
				cols.phone = i
			}
		case "email", "email address":
			if cols.email < 0 {
				cols.email = i
			}
		case "category", "type":
			if cols.category < 0 {
				cols.category = i
			}
		}
	}

	return cols
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[i])
}

const (
	StatusCheckedIn    = "Checked In"
	StatusNotCheckedIn = "Not Checked In"
)

var exportHeader = []string{"Name", "Category", "Phone", "Email", "Status", "Access Token", "Short Code", "Card URL"}

type ExportRow struct {
	Guest     models.Guest
	CheckedIn bool
	CardURL   string
}

// Write writes the roster with one line per guest.
func Write(w io.Writer, rows []ExportRow) error {
	const op = "csvroster.Write"

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, row := range rows {
		status := StatusNotCheckedIn
		if row.CheckedIn {
			status = StatusCheckedIn
		}

		g := row.Guest
		if err := writer.Write([]string{g.Name, g.Category, g.Phone, g.Email, status, g.AccessToken, g.ShortCode, row.CardURL}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
