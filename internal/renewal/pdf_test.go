package renewal

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes one page per entry, one text line per string
func buildPDF(t *testing.T, pages [][]string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetFont("Helvetica", "", 11)
	for _, lines := range pages {
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

func samplePages() [][]string {
	return [][]string{
		{"IMPORTANT NOTICE", "Please read before renewing."},
		{"RENEWAL NOTICE", "MC-HO-2026-0001: Policy No", "Insured: ACME TRADING INC. MAKATI Plate No. ABC 123", "Agent: MARIA SANTOS Remarks: none"},
		{"RENEWAL NOTICE", "FI-HO-2026-0002: Policy No", "Insured: JUAN &/OR ANA REYES Plate No. NONE"},
		{"Agent: PEDRO CRUZ Remarks: none"},
	}
}

func TestOpen_RejectsNonPDF(t *testing.T) {
	_, err := Open([]byte("hello"))
	assert.ErrorIs(t, err, ErrNotPDF)
	assert.False(t, IsPDF(nil))
}

func TestDocument_ScanAndWrite(t *testing.T) {
	data := buildPDF(t, samplePages())
	doc, err := Open(data)
	require.NoError(t, err)
	require.Equal(t, 4, doc.NumPages())

	notices := Scan(doc)
	require.Len(t, notices, 2)
	assert.Equal(t, "MC-HO-2026-0001", notices[0].Policy)
	assert.Equal(t, "MARIA SANTOS", notices[0].Agent)
	assert.Equal(t, "ACME TRADING INC. MAKATI", notices[0].Insured)
	assert.Equal(t, []int{1, 2}, notices[0].Pages)
	assert.Equal(t, "PEDRO CRUZ", notices[1].Agent)
	assert.Equal(t, []int{3, 4}, notices[1].Pages)

	var out bytes.Buffer
	require.NoError(t, doc.WritePages(&out, notices[0].Pages))
	part, err := Open(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, part.NumPages())
}
