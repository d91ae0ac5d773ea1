package converter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/infra3-curator/internal/config"
	"github.com/ginjaninja78/infra3-curator/internal/validation"
)

var workbookOrder = []string{
	SheetTransaction,
	SheetUnderlyingAsset,
	SheetEvents,
	SheetBidders,
	SheetTranches,
	SheetTranchePricings,
	SheetTrancheRoles,
}

// pipelineWorkbook encodes records as the first sheet of an .xlsx file.
func pipelineWorkbook(t *testing.T, records ...map[string]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(pipelineHeaders))
	for i, h := range pipelineHeaders {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))

	for r, rec := range records {
		cells := make([]interface{}, len(pipelineHeaders))
		for i, h := range pipelineHeaders {
			cells[i] = rec[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &cells))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestConvert(t *testing.T) {
	conv := New(config.Default(), nil)

	out, err := conv.Convert(source(t, northRoad, gulfPlant))
	require.NoError(t, err)

	assert.Equal(t, Stats{
		SourceRows:   2,
		Transactions: 2,
		Events:       1,
		Bidders:      4,
		Tranches:     4,
		TrancheRoles: 7,
		Warnings:     0,
		Duration:     out.Stats.Duration,
	}, out.Stats)

	sheets := out.Sheets()
	require.Len(t, sheets, len(workbookOrder))
	for i, s := range sheets {
		assert.Equal(t, workbookOrder[i], s.Name)
	}
	assert.Empty(t, sheets[1].Rows, "Underlying_Asset is a placeholder")
	assert.Equal(t, UnderlyingAssetColumns, sheets[1].Columns)
	assert.Empty(t, sheets[5].Rows, "Tranche_Pricings is a placeholder")
	assert.Equal(t, TranchePricingColumns, sheets[5].Columns)
}

func TestConvertInvariants(t *testing.T) {
	src := source(t, northRoad, gulfPlant)
	out, err := New(config.Default(), nil).Convert(src)
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, id := range out.Transaction.Column(ColTransactionID) {
		ids[id] = true
	}
	for _, table := range []struct {
		name string
		ids  []string
	}{
		{SheetEvents, out.Events.Column(ColTransactionID)},
		{SheetBidders, out.Bidders.Column(ColTransactionID)},
		{SheetTranches, out.Tranches.Column(ColTransactionID)},
		{SheetTrancheRoles, out.TrancheRoles.Column(ColTransactionID)},
	} {
		for _, id := range table.ids {
			assert.True(t, ids[id], "%s references unknown transaction %q", table.name, id)
		}
	}

	for i := range out.Tranches.Rows {
		id := out.Tranches.Value(i, ColTrancheID)
		assert.True(t, strings.HasPrefix(id, out.Tranches.Value(i, ColTransactionID)+"-"), id)
		assert.NotEmpty(t, out.Tranches.Value(i, "Tranche Tertiary Type"), id)
	}

	for i := range out.Events.Rows {
		assert.NotEqual(t, "N/A", out.Events.Value(i, "Event Date"))
		assert.NotEmpty(t, out.Events.Value(i, "Event Date"))
	}

	for _, c := range out.TrancheRoles.Column(ColCompany) {
		assert.NotEmpty(t, c)
		assert.NotContains(t, c, "(")
	}
}

func TestConvertDeterministic(t *testing.T) {
	conv := New(config.Default(), nil)

	first, err := conv.Convert(source(t, northRoad, gulfPlant))
	require.NoError(t, err)
	second, err := conv.Convert(source(t, northRoad, gulfPlant))
	require.NoError(t, err)

	assert.Equal(t, first.Sheets(), second.Sheets())
}

func TestConvertWarnings(t *testing.T) {
	dup := map[string]string{"Transaction Upload ID": "T1", "Transaction Name": "Again"}
	blank := map[string]string{"Transaction Name": "Unkeyed"}

	out, err := New(config.Default(), nil).Convert(source(t, northRoad, dup, blank))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Stats.Warnings)
	assert.Len(t, out.Warnings, 2)
	assert.Equal(t, 3, out.Stats.Transactions, "warnings do not drop rows")
}

func TestConvertMissingIdentifier(t *testing.T) {
	src := sourceWith(t, []string{"Transaction Name"}, map[string]string{"Transaction Name": "North Road"})

	_, err := New(config.Default(), nil).Convert(src)
	assert.ErrorIs(t, err, validation.ErrMissingIdentifier)
}

func TestConvertBytesXLSX(t *testing.T) {
	conv := New(config.Default(), nil)

	data, out, err := conv.ConvertBytes(pipelineWorkbook(t, northRoad, gulfPlant), "pipeline.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Stats.Transactions)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, workbookOrder, f.GetSheetList())

	header, err := f.GetRows(SheetTranches)
	require.NoError(t, err)
	require.Len(t, header, 5)
	assert.Equal(t, TrancheColumns, header[0])

	v, err := f.GetCellValue(SheetTranches, "F2")
	require.NoError(t, err)
	assert.Equal(t, "200", v)

	v, err = f.GetCellValue(SheetEvents, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2021-01-01", v)
}

func TestConvertBytesCSV(t *testing.T) {
	input := "Transaction Upload ID,Transaction Name,Financial close\n" +
		"T1,North Road and Bridge,2021-01-01\n"

	_, out, err := New(config.Default(), nil).ConvertBytes([]byte(input), "pipeline.csv")
	require.NoError(t, err)
	assert.Equal(t, "North Road & Bridge", out.Transaction.Value(0, "Transaction Name"))
	assert.Equal(t, 1, out.Stats.Events)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "pipeline.xlsx")
	require.NoError(t, os.WriteFile(input, pipelineWorkbook(t, northRoad), 0644))

	output := filepath.Join(dir, "out", "infra3.xlsx")
	out, err := New(config.Default(), nil).ConvertFile(input, output)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Stats.Transactions)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, workbookOrder, f.GetSheetList())
}

func TestConvertFileNoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "pipeline.csv")
	require.NoError(t, os.WriteFile(input, []byte("Transaction Name\nNorth Road\n"), 0644))

	output := filepath.Join(dir, "infra3.xlsx")
	_, err := New(config.Default(), nil).ConvertFile(input, output)
	require.ErrorIs(t, err, validation.ErrMissingIdentifier)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no workbook is written on failure")
}

func TestOptionsFrom(t *testing.T) {
	opts := OptionsFrom(config.ConversionConfig{TrancheSlots: 4, CapitalMarketSlots: 2, ClassifiedSlots: 1})
	assert.Equal(t, Options{TrancheSlots: 4, CapitalMarketSlots: 2, ClassifiedSlots: 1}, opts)
	assert.Equal(t, Options{TrancheSlots: 20, CapitalMarketSlots: 20, ClassifiedSlots: 3}, DefaultOptions())
}
