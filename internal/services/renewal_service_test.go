package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soa-backend/internal/archive"
	"soa-backend/internal/models"
	"soa-backend/internal/workspace"
)

func renewalPDF(t *testing.T) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetFont("Helvetica", "", 11)
	for _, lines := range [][]string{
		{"IMPORTANT NOTICE"},
		{"RENEWAL NOTICE", "MC-HO-2026-0001: Policy No", "Insured: ACME TRADING INC. MAKATI Plate No. ABC 123", "Agent: MARIA SANTOS Remarks: none"},
	} {
		pdf.AddPage()
		for _, line := range lines {
			pdf.Cell(0, 8, line)
			pdf.Ln(10)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func newRenewalService(t *testing.T) (*RenewalService, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "work")
	ws, err := workspace.New(root, nil)
	require.NoError(t, err)
	svc := NewRenewalService(ws, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, root
}

func TestRenewalService_Run(t *testing.T) {
	svc, root := newRenewalService(t)
	uploads := []models.Upload{
		{Name: "notes.txt", Data: []byte("skip me")},
		{Name: "fake.pdf", Data: []byte("not really")},
		{Name: "Renewals November 2026.pdf", Data: renewalPDF(t)},
	}

	res, err := svc.Run(context.Background(), uploads)
	require.NoError(t, err)
	assert.Equal(t, "Renewal Notices November 2026.zip", res.ArchiveName)
	assert.Equal(t, 1, res.Documents)

	data, err := os.ReadFile(res.ArchivePath)
	require.NoError(t, err)
	names, err := archive.Names(data)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"Renewal Notices November 2026/Agents/MARIA SANTOS/ACME TRADING INC/ACME TRADING INC. MC-HO-2026-0001.pdf",
		"Renewal Notices November 2026/All Renewal Notices/ACME TRADING INC. MC-HO-2026-0001.pdf",
	}, names)

	svc.Cleanup(res)
	assertNoRuns(t, root)
}

func TestRenewalService_NoNotices(t *testing.T) {
	svc, root := newRenewalService(t)
	_, err := svc.Run(context.Background(), []models.Upload{{Name: "scan.pdf", Data: []byte("%PDF-broken")}})
	assert.True(t, errors.Is(err, models.ErrNoData))
	assertNoRuns(t, root)

	_, err = svc.Run(context.Background(), nil)
	assert.True(t, models.IsInputError(err))
}

func TestRenewalService_BatchFolderDefaultsToNow(t *testing.T) {
	svc, _ := newRenewalService(t)
	assert.Equal(t, "Renewal Notices October 2026", svc.batchFolder([]models.Upload{{Name: "scan.pdf"}}))
}
