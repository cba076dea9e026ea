package repository

import (
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/xuri/excelize/v2"
)

// readSpreadsheet parses the first sheet of an XLSX workbook whose first row
// is the header
func readSpreadsheet(r io.Reader) ([]model.LaunchRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, goerr.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read sheet", goerr.V("sheet", sheets[0]))
	}
	if len(rows) == 0 {
		return nil, goerr.New("dataset has no header row", goerr.V("sheet", sheets[0]))
	}

	return parseRecords(rows[0], rows[1:], 2)
}
