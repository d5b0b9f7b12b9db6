package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"soa-backend/internal/models"
)

func sampleGrid() *models.Grid {
	g := &models.Grid{Sheet: "SOA"}
	g.Set(0, 0, "ACME INSURANCE", models.CellStyle{Bold: true, Size: 12})
	g.Set(2, 0, "Branch", models.CellStyle{Bold: true, Border: models.Boxed})
	g.Set(2, 1, "Balance Due", models.CellStyle{Bold: true, Border: models.Boxed})
	g.Set(3, 0, "HO", models.CellStyle{Border: models.Boxed})
	g.Set(3, 1, decimal.RequireFromString("-1250.50"), models.CellStyle{NumFmt: "#,##0.00", Align: "right", Border: models.Boxed})
	g.Set(4, 0, "", models.CellStyle{Border: models.Border{Bottom: models.BorderDotted}})
	g.Widths = []float64{12, 15}
	return g
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Save(sampleGrid(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"SOA"}, f.GetSheetList())

	v, err := f.GetCellValue("SOA", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ACME INSURANCE", v)

	v, err = f.GetCellValue("SOA", "B4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "-1250.5", v)

	id, err := f.GetCellStyle("SOA", "A3")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.Len(t, style.Border, 4)

	w, err := f.GetColWidth("SOA", "B")
	require.NoError(t, err)
	assert.Equal(t, 15.0, w)
}

func TestSave_SharesStyles(t *testing.T) {
	g := &models.Grid{Sheet: "SOA"}
	for i := 0; i < 50; i++ {
		g.Set(i, 0, "x", models.CellStyle{Border: models.Boxed})
	}
	f, err := build(g)
	require.NoError(t, err)
	defer f.Close()

	first, err := f.GetCellStyle("SOA", "A1")
	require.NoError(t, err)
	last, err := f.GetCellStyle("SOA", "A50")
	require.NoError(t, err)
	assert.Equal(t, first, last)
}
