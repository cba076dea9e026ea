package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
	"github.com/secmon-lab/launchboard/pkg/repository"
	"github.com/xuri/excelize/v2"
)

var launchHeader = []string{"", "Flight Number", "Launch Site", "class", "Payload Mass (kg)", "Booster Version", "Booster Version Category"}

var launchRows = [][]string{
	{"0", "1", "CCAFS LC-40", "0", "0.0", "F9 v1.0  B0003", "v1.0"},
	{"1", "2", "CCAFS LC-40", "0", "0.0", "F9 v1.0  B0004", "v1.0"},
	{"2", "3", "CCAFS LC-40", "0", "525.0", "F9 v1.0  B0005", "v1.0"},
	{"3", "7", "VAFB SLC-4E", "0", "500.0", "F9 v1.1  B1003", "v1.1"},
	{"4", "24", "KSC LC-39A", "1", "2490.0", "F9 FT B1031.1", "FT"},
	{"5", "51", "CCAFS SLC-40", "1", "4000.0", "F9 B5 B1046.3", "B5"},
}

func writeCSV(t *testing.T, header []string, rows [][]string) string {
	t.Helper()
	return writeDelimited(t, "launches.csv", ",", header, rows)
}

func writeTSV(t *testing.T, header []string, rows [][]string) string {
	t.Helper()
	return writeDelimited(t, "launches.tsv", "\t", header, rows)
}

func writeDelimited(t *testing.T, name, sep string, header []string, rows [][]string) string {
	t.Helper()
	lines := []string{strings.Join(header, sep)}
	for _, row := range rows {
		lines = append(lines, strings.Join(row, sep))
	}

	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600)).Required()
	return path
}

func writeXLSX(t *testing.T, header []string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	all := append([][]string{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		gt.NoError(t, err).Required()

		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		gt.NoError(t, f.SetSheetRow(sheet, cell, &values)).Required()
	}

	path := filepath.Join(t.TempDir(), "launches.xlsx")
	gt.NoError(t, f.SaveAs(path)).Required()
	return path
}

func testLoader(t *testing.T, write func(t *testing.T, header []string, rows [][]string) string) {
	ctx := context.Background()

	t.Run("loads all rows", func(t *testing.T) {
		path := write(t, launchHeader, launchRows)
		ds, err := repository.LoadDataset(ctx, path)
		gt.NoError(t, err).Required()

		gt.Equal(t, ds.Len(), len(launchRows))
		gt.Equal(t, ds.Sites(), []types.SiteName{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"})

		low, high := ds.PayloadBounds()
		gt.Equal(t, low, 0.0)
		gt.Equal(t, high, 4000.0)

		first := ds.Record(4)
		gt.Equal(t, first.Site, types.SiteName("KSC LC-39A"))
		gt.Equal(t, first.PayloadMassKg, 2490.0)
		gt.Equal(t, first.Outcome, types.OutcomeSuccess)
		gt.Equal(t, first.BoosterVersionCategory, types.BoosterCategory("FT"))
		gt.Equal(t, first.FlightNumber, 24)
		gt.Equal(t, first.BoosterVersion, "F9 FT B1031.1")
	})

	t.Run("optional columns may be absent", func(t *testing.T) {
		header := []string{"Launch Site", "Payload Mass (kg)", "class", "Booster Version Category"}
		rows := [][]string{
			{"SiteA", "500", "1", "v1.0"},
			{"SiteB", "2500", "0", "v1.1"},
		}
		ds, err := repository.LoadDataset(ctx, write(t, header, rows))
		gt.NoError(t, err).Required()
		gt.Equal(t, ds.Len(), 2)
		gt.Equal(t, ds.Record(0).FlightNumber, 0)
	})

	t.Run("header only is an empty dataset", func(t *testing.T) {
		ds, err := repository.LoadDataset(ctx, write(t, launchHeader, nil))
		gt.NoError(t, err).Required()
		gt.Equal(t, ds.Len(), 0)
	})

	t.Run("missing required column", func(t *testing.T) {
		header := []string{"Launch Site", "Payload Mass (kg)", "Booster Version Category"}
		rows := [][]string{{"SiteA", "500", "v1.0"}}
		_, err := repository.LoadDataset(ctx, write(t, header, rows))
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
		gt.S(t, err.Error()).Contains("missing required column")
	})

	t.Run("malformed payload", func(t *testing.T) {
		rows := [][]string{{"0", "1", "CCAFS LC-40", "0", "heavy", "F9 v1.0  B0003", "v1.0"}}
		_, err := repository.LoadDataset(ctx, write(t, launchHeader, rows))
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
	})

	t.Run("non-finite payload", func(t *testing.T) {
		for _, mass := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
			rows := [][]string{
				{"0", "1", "SiteA", "1", "500", "F9 v1.0  B0003", "v1.0"},
				{"1", "2", "SiteB", "0", mass, "F9 v1.1  B1003", "v1.1"},
			}
			_, err := repository.LoadDataset(ctx, write(t, launchHeader, rows))
			gt.Error(t, err)
			gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
			gt.S(t, err.Error()).Contains("finite")
		}
	})

	t.Run("non-finite flight number", func(t *testing.T) {
		rows := [][]string{{"0", "NaN", "SiteA", "1", "500", "F9 v1.0  B0003", "v1.0"}}
		_, err := repository.LoadDataset(ctx, write(t, launchHeader, rows))
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
	})

	t.Run("malformed class", func(t *testing.T) {
		rows := [][]string{{"0", "1", "CCAFS LC-40", "2", "500", "F9 v1.0  B0003", "v1.0"}}
		_, err := repository.LoadDataset(ctx, write(t, launchHeader, rows))
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
	})

	t.Run("empty launch site", func(t *testing.T) {
		rows := [][]string{{"0", "1", "", "1", "500", "F9 v1.0  B0003", "v1.0"}}
		_, err := repository.LoadDataset(ctx, write(t, launchHeader, rows))
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
	})
}

func TestCSVLoader(t *testing.T) {
	testLoader(t, writeCSV)
}

func TestTSVLoader(t *testing.T) {
	testLoader(t, writeTSV)
}

func TestXLSXLoader(t *testing.T) {
	testLoader(t, writeXLSX)
}

func TestLoadDatasetFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := repository.LoadDataset(ctx, filepath.Join(t.TempDir(), "missing.csv"))
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
		gt.S(t, err.Error()).Contains("dataset file not found")
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := repository.NewFileLoader("").Load(ctx)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.csv")
		gt.NoError(t, os.WriteFile(path, nil, 0600)).Required()

		_, err := repository.LoadDataset(ctx, path)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
	})

	t.Run("ragged csv row", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ragged.csv")
		content := "Launch Site,Payload Mass (kg),class,Booster Version Category\nSiteA,500,1\n"
		gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()

		_, err := repository.LoadDataset(ctx, path)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.xlsx")
		gt.NoError(t, os.WriteFile(path, []byte("not a zip"), 0600)).Required()

		_, err := repository.LoadDataset(ctx, path)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagDataLoad)).True()
	})

	t.Run("byte order mark before header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bom.csv")
		content := "\ufeffLaunch Site,Payload Mass (kg),class,Booster Version Category\nSiteA,500,1,v1.0\n"
		gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()

		ds, err := repository.LoadDataset(ctx, path)
		gt.NoError(t, err).Required()
		gt.Equal(t, ds.Len(), 1)
	})
}
