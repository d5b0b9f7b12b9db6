package renewal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNotPDF is returned for uploads without a PDF signature
var ErrNotPDF = errors.New("not a PDF file")

func init() {
	api.DisableConfigDir()
}

// IsPDF checks the file signature
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// Document is a parsed source PDF
type Document struct {
	data   []byte
	reader *pdf.Reader
}

// Open parses a PDF held in memory
func Open(data []byte) (doc *Document, err error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}
	// the text reader panics on some damaged files
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("unreadable PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &Document{data: data, reader: r}, nil
}

func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// PageText joins the words of each text row with spaces and rows with
// newlines, top to bottom
func (d *Document) PageText(i int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", i, r)
		}
	}()
	p := d.reader.Page(i)
	if p.V.IsNull() {
		return "", nil
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, row := range rows {
		for _, word := range row.Content {
			b.WriteString(word.S)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// WritePages writes a new PDF holding only the given 1 based pages
func (d *Document) WritePages(w io.Writer, pages []int) error {
	selected := make([]string, len(pages))
	for i, p := range pages {
		selected[i] = strconv.Itoa(p)
	}
	conf := model.NewDefaultConfiguration()
	if err := api.Trim(bytes.NewReader(d.data), w, selected, conf); err != nil {
		return fmt.Errorf("failed to extract pages %v: %w", pages, err)
	}
	return nil
}
