package infra

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// LeerFilasExcel reads the first sheet of an .xlsx stream and returns the data
// rows as raw cell text. The header row is dropped; element i is sheet row i+2.
func LeerFilasExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excel: open: %w", err)
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, errors.New("excel: el archivo no tiene hojas")
	}
	rows, err := f.GetRows(hojas[0])
	if err != nil {
		return nil, fmt.Errorf("excel: read sheet %q: %w", hojas[0], err)
	}
	if len(rows) <= 1 {
		return [][]string{}, nil
	}
	return rows[1:], nil
}
