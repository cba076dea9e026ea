package repository

import (
	"math"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// columnIndex maps header names to their positions
type columnIndex map[string]int

func newColumnIndex(header []string) (columnIndex, error) {
	index := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := index[name]; dup && name != "" {
			return nil, goerr.New("duplicate column", goerr.V("column", name))
		}
		index[name] = i
	}

	for _, required := range model.RequiredColumns {
		if _, ok := index[required]; !ok {
			return nil, goerr.New("missing required column",
				goerr.V("column", required),
				goerr.V("header", header))
		}
	}

	return index, nil
}

// cell returns the trimmed value of a column, or "" when the row is short
// or the column is absent
func (c columnIndex) cell(row []string, column string) string {
	i, ok := c[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseRecords converts data rows into launch records. line is the 1-based
// source line of rows[0] and is only used for error context.
func parseRecords(header []string, rows [][]string, line int) ([]model.LaunchRecord, error) {
	index, err := newColumnIndex(header)
	if err != nil {
		return nil, err
	}

	records := make([]model.LaunchRecord, 0, len(rows))
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}

		record, err := parseRecord(index, row)
		if err != nil {
			return nil, goerr.Wrap(err, "malformed row", goerr.V("line", line+i))
		}
		records = append(records, record)
	}

	return records, nil
}

func parseRecord(index columnIndex, row []string) (model.LaunchRecord, error) {
	var record model.LaunchRecord

	record.Site = types.SiteName(index.cell(row, model.ColumnLaunchSite))
	record.BoosterVersionCategory = types.BoosterCategory(index.cell(row, model.ColumnBoosterVersionCategory))
	record.BoosterVersion = index.cell(row, model.ColumnBoosterVersion)

	mass := index.cell(row, model.ColumnPayloadMass)
	payload, err := strconv.ParseFloat(mass, 64)
	if err != nil {
		return record, goerr.Wrap(err, "invalid payload mass",
			goerr.V("column", model.ColumnPayloadMass),
			goerr.V("value", mass))
	}
	if !isFinite(payload) {
		return record, goerr.New("payload mass must be a finite number",
			goerr.V("column", model.ColumnPayloadMass),
			goerr.V("value", mass))
	}
	record.PayloadMassKg = payload

	class, err := types.ParseOutcomeClass(index.cell(row, model.ColumnClass))
	if err != nil {
		return record, goerr.Wrap(err, "invalid outcome class",
			goerr.V("column", model.ColumnClass))
	}
	record.Outcome = class

	if v := index.cell(row, model.ColumnFlightNumber); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err == nil && !isFinite(n) {
			err = goerr.New("not a finite number")
		}
		if err != nil {
			return record, goerr.Wrap(err, "invalid flight number",
				goerr.V("column", model.ColumnFlightNumber),
				goerr.V("value", v))
		}
		record.FlightNumber = int(n)
	}

	if err := record.Validate(); err != nil {
		return record, err
	}
	return record, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
