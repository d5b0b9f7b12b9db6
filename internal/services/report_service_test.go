package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"soa-backend/internal/archive"
	"soa-backend/internal/layout"
	"soa-backend/internal/models"
	"soa-backend/internal/soa"
	"soa-backend/internal/timeutil"
	"soa-backend/internal/workspace"
)

var fixedNow = time.Date(2026, 10, 19, 10, 30, 0, 0, timeutil.Local)

const directHeader = "Branch,Intermediary,Policy No.,Incept Date,Eff Date,Assured Name,Invoice No.,Bill No.,Premium Bal Due,Tax Bal Due,Balance Due,Remarks\n"

const reference = `
direct:
  merge:
    - master: Acme Group
      aliases: ["Acme Insurance, Inc."]
  folders:
    Acme Group: Key Accounts
`

func newService(t *testing.T) (*ReportService, string) {
	t.Helper()
	dir := t.TempDir()
	refPath := filepath.Join(dir, "reference.yaml")
	require.NoError(t, os.WriteFile(refPath, []byte(reference), 0o644))

	root := filepath.Join(dir, "work")
	ws, err := workspace.New(root, nil)
	require.NoError(t, err)

	svc := NewReportService(ws, layout.NewBuilder(layout.Options{Company: "ACME INSURANCE"}),
		ReportServiceConfig{ReferenceFile: refPath}, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, root
}

func assertNoRuns(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "run directory is removed on failure")
}

func TestReportService_Direct(t *testing.T) {
	svc, root := newService(t)
	uploads := []models.Upload{
		{Name: "ledger-a.csv", Data: []byte(directHeader +
			`HO,"Acme Insurance, Inc.",P-1,09/09/2026,,Juan,I-1,B-1,900,100,"1,000.00",` + "\n" +
			`HO,Beta Agency,P-2,04/01/2026,,Maria,I-2,B-2,300,0,300,` + "\n")},
		{Name: "ledger-b.csv", Data: []byte(directHeader +
			`HO,"Acme Insurance, Inc.",P-4,,05/01/2026,Jose,I-4,B-4,50,0,50,follow up` + "\n" +
			`HO,Zero Corp,P-3,,08/01/2026,Pedro,I-3,B-3,0,0,0,` + "\n")},
		{Name: "empty.csv", Data: []byte("")},
	}

	res, err := svc.Run(context.Background(), soa.Direct, uploads)
	require.NoError(t, err)

	assert.Equal(t, "SoA as of September 30, 2026.zip", res.ArchiveName)
	assert.Equal(t, 2, res.Documents)

	data, err := os.ReadFile(res.ArchivePath)
	require.NoError(t, err)
	names, err := archive.Names(data)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"Key Accounts/Acme Group_SOA as of September 30, 2026.xlsx",
		"Beta Agency_SOA as of September 30, 2026.xlsx",
	}, names)

	f, err := excelize.OpenFile(filepath.Join(res.WorkDir, "output", "Key Accounts", "Acme Group_SOA as of September 30, 2026.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(layout.SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ACME INSURANCE", v)
	v, err = f.GetCellValue(layout.SheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "AS OF SEPTEMBER 30, 2026", v)

	assert.FileExists(t, filepath.Join(res.WorkDir, "input", "ledger-a.csv"))
	svc.Cleanup(res)
	assertNoRuns(t, root)
}

func TestReportService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		kind    soa.Kind
		uploads []models.Upload
		noData  bool
	}{
		{
			name:    "all totals zero",
			kind:    soa.Direct,
			uploads: []models.Upload{{Name: "zero.csv", Data: []byte(directHeader + "HO,Zero Corp,P-3,,08/01/2026,Pedro,I-3,B-3,0,0,0,\n")}},
			noData:  true,
		},
		{
			name:    "missing entity column",
			kind:    soa.Direct,
			uploads: []models.Upload{{Name: "bad.csv", Data: []byte("Branch,Balance Due\nHO,100\n")}},
		},
		{
			name:    "cash call needs two files",
			kind:    soa.CashCall,
			uploads: []models.Upload{{Name: "bulk.csv", Data: []byte("Reinsurer,Policy Number\nA,P\n")}},
		},
		{
			name: "no uploads",
			kind: soa.Premium,
		},
		{
			name:    "unknown pipeline",
			kind:    soa.Kind("life"),
			uploads: []models.Upload{{Name: "x.csv", Data: []byte("a\n1\n")}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, root := newService(t)
			res, err := svc.Run(context.Background(), tt.kind, tt.uploads)
			require.Error(t, err)
			assert.Nil(t, res)
			if tt.noData {
				assert.True(t, errors.Is(err, models.ErrNoData))
			} else {
				assert.True(t, models.IsInputError(err), "got %v", err)
			}
			assertNoRuns(t, root)
		})
	}
}

func TestReportService_Premium(t *testing.T) {
	svc, root := newService(t)
	csv := "Reinsurer,Address,Currency,Our Policy No.,Balance Due,CURRENT,OVER 30 DAYS,OVER 60 DAYS,OVER 90 DAYS,OVER 120 DAYS,OVER 180 DAYS\n" +
		"ALPHA RE,Makati City,PHP,P-1,\"2,500.00\",0,0,0,0,\"2,500.00\",0\n" +
		"BETA RE,Pasig City,PHP,P-2,0,0,0,0,0,0,0\n"

	res, err := svc.Run(context.Background(), soa.Premium, []models.Upload{{Name: "premium.csv", Data: []byte(csv)}})
	require.NoError(t, err)
	defer svc.Cleanup(res)

	assert.Equal(t, "SOA PREMIUM AS OF Oct 19, 2026.zip", res.ArchiveName)
	data, err := os.ReadFile(res.ArchivePath)
	require.NoError(t, err)
	names, err := archive.Names(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"SOA ALPHA RE AS OF Oct 19, 2026.xlsx"}, names)

	svc.Cleanup(res)
	assertNoRuns(t, root)
}

func TestReportService_CanceledContext(t *testing.T) {
	svc, root := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, soa.Direct, []models.Upload{{Name: "a.csv", Data: []byte(directHeader + "HO,Beta Agency,P-2,04/01/2026,,Maria,I-2,B-2,300,0,300,\n")}})
	assert.ErrorIs(t, err, context.Canceled)
	assertNoRuns(t, root)
}

func TestRender_StopsAtFirstFailureInOrder(t *testing.T) {
	svc, _ := newService(t)
	p, err := soa.NewPipeline(soa.Direct)
	require.NoError(t, err)

	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "Blocked"), []byte("x"), 0o644))
	docs := []*models.Document{
		{Key: "single:a|", Entity: "A", Folder: "Blocked", FileName: "A_SOA.xlsx"},
		{Key: "single:b|", Entity: "B", FileName: "B_SOA.xlsx"},
	}

	err = svc.render(context.Background(), p, docs, out, p.AsOf(fixedNow))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(out, "B_SOA.xlsx"), "later documents are not written after a failure")
}
