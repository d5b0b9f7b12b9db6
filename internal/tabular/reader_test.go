package tabular

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRead_CSV(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantHeader []string
		wantRows   int
		wantCell   string
	}{
		{
			name:       "plain utf8",
			data:       []byte("Branch, Intermediary ,Balance Due\nHO,Cruz Juan,\"1,000.00\"\n"),
			wantHeader: []string{"Branch", "Intermediary", "Balance Due"},
			wantRows:   1,
			wantCell:   "Cruz Juan",
		},
		{
			name:       "byte order mark and blank lines",
			data:       []byte("\xef\xbb\xbfBranch,Intermediary\n,\nHO,Santos Ana\n\n"),
			wantHeader: []string{"Branch", "Intermediary"},
			wantRows:   1,
			wantCell:   "Santos Ana",
		},
		{
			name:       "windows-1252 bytes",
			data:       []byte("Branch,Intermediary\nHO,Pe\xf1a Jose\n"),
			wantHeader: []string{"Branch", "Intermediary"},
			wantRows:   1,
			wantCell:   "Peña Jose",
		},
		{
			name:       "short rows are padded",
			data:       []byte("Branch,Intermediary,Remarks\nHO,Reyes Ben\n"),
			wantHeader: []string{"Branch", "Intermediary", "Remarks"},
			wantRows:   1,
			wantCell:   "Reyes Ben",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Read("ledger.csv", tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, table.Header)
			require.Len(t, table.Rows, tt.wantRows)
			assert.Equal(t, tt.wantCell, table.Get(table.Rows[0], "intermediary"))
			assert.Len(t, table.Rows[0], len(tt.wantHeader))
		})
	}
}

func TestRead_EmptyCSV(t *testing.T) {
	_, err := Read("empty.csv", []byte(""))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Reinsurer", "Balance Due"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"ALPHA RE", 1500.5}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := Read("premium.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Reinsurer", "Balance Due"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "ALPHA RE", table.Rows[0][0])
	assert.Equal(t, "1500.5", table.Rows[0][1])
}

func TestFindHeader(t *testing.T) {
	grid := [][]string{
		{"PHILIPPINE FIRST"},
		{"Cash call summary"},
		{"FLA NUMBER", " FLA DATE ", "LOSS DATE"},
		{"F-1", "01/05/2026", "12/20/2025"},
	}
	idx := FindHeader(grid, "FLA DATE", "LOSS DATE")
	assert.Equal(t, 2, idx)

	table, err := FromGrid("summary.csv", grid, idx)
	require.NoError(t, err)
	assert.Equal(t, "12/20/2025", table.Get(table.Rows[0], "Loss Date"))

	assert.Equal(t, -1, FindHeader(grid, "CLAIM NUMBER"))
}
