package repository

import (
	"encoding/csv"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
)

// readDelimited parses a delimited table whose first row is the header
func readDelimited(r io.Reader, comma rune) ([]model.LaunchRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma

	header, err := reader.Read()
	if err == io.EOF {
		return nil, goerr.New("dataset has no header row")
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read header row")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rows")
	}

	return parseRecords(header, rows, 2)
}
