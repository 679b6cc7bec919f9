package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth    = 595.28
	pageHeight   = 841.89
	margin       = 40.0
	contentWidth = pageWidth - 2*margin
	columnGap    = 18.0
	rowHeight    = 34.0
	barHeight    = 18.0
	bottomLimit  = pageHeight - 48
	lineHeight   = 11.0

	labelFontSize = 8.0
	valueFontSize = 10.0
	minFontSize   = 6.0
)

// ImageLoader returns the bytes behind an upload reference.
type ImageLoader func(ref string) ([]byte, error)

type Renderer struct {
	Letterhead Letterhead
	Watermark  string
	Images     ImageLoader
}

func NewRenderer(letterhead Letterhead, watermark string, images ImageLoader) *Renderer {
	return &Renderer{Letterhead: letterhead, Watermark: watermark, Images: images}
}

// Render draws doc and returns the PDF bytes. It gives up when ctx is done;
// the drawing goroutine owns its gofpdf instance and exits on its own.
func (r *Renderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := r.render(doc)
		done <- result{data: data, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.data, res.err
	}
}

func (r *Renderer) render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(doc.CreatedAt)
	pdf.SetModificationDate(doc.CreatedAt)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(margin, margin, margin)

	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), r: r}
	pdf.SetTitle(w.tr(doc.Title), false)
	if doc.Author != "" {
		pdf.SetAuthor(w.tr(doc.Author), false)
	}
	pdf.SetHeaderFunc(w.header)
	pdf.SetFooterFunc(w.footer)

	for _, page := range doc.Pages {
		w.pageTitle = page.Title
		pdf.AddPage()
		y := w.contentTop()
		for _, section := range page.Sections {
			y = w.section(section, y)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	pdf       *gofpdf.Fpdf
	tr        func(string) string
	r         *Renderer
	pageTitle string
}

func (w *writer) contentTop() float64 {
	return 50 + float64(len(w.r.Letterhead.Lines))*10 + 40
}

func (w *writer) header() {
	pdf := w.pdf
	if mark := w.r.Watermark; mark != "" {
		pdf.SetFont("Helvetica", "B", 64)
		pdf.SetTextColor(236, 236, 236)
		width := pdf.GetStringWidth(mark)
		pdf.TransformBegin()
		pdf.TransformRotate(45, pageWidth/2, pageHeight/2)
		pdf.Text(pageWidth/2-width/2, pageHeight/2, w.tr(mark))
		pdf.TransformEnd()
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	w.centered(w.r.Letterhead.Name, 36)
	pdf.SetFont("Helvetica", "", 8)
	y := 50.0
	for _, line := range w.r.Letterhead.Lines {
		w.centered(line, y)
		y += 10
	}
	if w.pageTitle != "" {
		pdf.SetFont("Helvetica", "B", 11)
		w.centered(w.pageTitle, y+14)
	}
}

func (w *writer) footer() {
	w.pdf.SetFont("Helvetica", "", 7)
	w.pdf.SetTextColor(120, 120, 120)
	w.centered(fmt.Sprintf("Page %d", w.pdf.PageNo()), pageHeight-24)
}

func (w *writer) centered(text string, y float64) {
	text = w.tr(text)
	w.pdf.Text((pageWidth-w.pdf.GetStringWidth(text))/2, y, text)
}

func (w *writer) ensureRoom(y, height float64) float64 {
	if y+height <= bottomLimit {
		return y
	}
	w.pdf.AddPage()
	return w.contentTop()
}

func (w *writer) section(section Section, y float64) float64 {
	pdf := w.pdf
	if section.Heading != "" {
		y = w.ensureRoom(y, barHeight+rowHeight)
		pdf.SetFillColor(44, 62, 80)
		pdf.Rect(margin, y, contentWidth, barHeight, "F")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(255, 255, 255)
		pdf.Text(margin+6, y+12.5, w.tr(section.Heading))
		y += barHeight + 8
	}

	columns := section.Columns
	if columns <= 0 {
		columns = 2
	}
	colWidth := (contentWidth - float64(columns-1)*columnGap) / float64(columns)

	for _, fields := range rows(section.Fields, columns) {
		width := colWidth
		if fields[0].Wide {
			width = contentWidth
		}
		cells := make([]cell, len(fields))
		for i, field := range fields {
			cells[i] = cell{field: field, lines: w.valueLines(field.Value, width)}
		}
		y = w.row(cells, y, width)
	}
	return y + 6
}

type cell struct {
	field Field
	lines []string
}

// rows groups fields into rows of at most columns. A wide field takes a row
// to itself.
func rows(fields []Field, columns int) [][]Field {
	var out [][]Field
	var current []Field
	for _, field := range fields {
		if field.Wide {
			if len(current) > 0 {
				out = append(out, current)
				current = nil
			}
			out = append(out, []Field{field})
			continue
		}
		current = append(current, field)
		if len(current) == columns {
			out = append(out, current)
			current = nil
		}
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

// row draws cells side by side and returns the y below them. The row grows
// by one line for every wrapped value line; a value taller than a page
// continues in further rows on the following pages.
func (w *writer) row(cells []cell, y, width float64) float64 {
	perPage := int((bottomLimit-w.contentTop()-rowHeight)/lineHeight) + 1
	for chunk := 0; ; chunk++ {
		parts := make([][]string, len(cells))
		tallest := 0
		for i, c := range cells {
			if from := chunk * perPage; from < len(c.lines) {
				parts[i] = c.lines[from:min(from+perPage, len(c.lines))]
			}
			tallest = max(tallest, len(parts[i]))
		}
		if chunk > 0 && tallest == 0 {
			return y
		}

		height := rowHeight + float64(max(tallest-1, 0))*lineHeight
		y = w.ensureRoom(y, height)
		for i, c := range cells {
			x := margin + float64(i)*(width+columnGap)
			if chunk == 0 {
				w.field(c.field.Label, c.field.Image, parts[i], x, y, width, height)
			} else if len(parts[i]) > 0 {
				w.field(c.field.Label+" (continued)", "", parts[i], x, y, width, height)
			}
		}
		y += height
	}
}

// field draws the label at y, the value lines from 12pt below it and the
// underline 9pt above the bottom of the row.
func (w *writer) field(label, image string, lines []string, x, y, width, height float64) {
	pdf := w.pdf
	pdf.SetFont("Helvetica", "", labelFontSize)
	pdf.SetTextColor(90, 90, 90)
	pdf.Text(x, y+8, w.label(label, width))

	if image == "" || !w.image(image, x, y+9) {
		pdf.SetFont("Helvetica", "", valueFontSize)
		pdf.SetTextColor(0, 0, 0)
		for i, line := range lines {
			pdf.Text(x, y+20+float64(i)*lineHeight, line)
		}
	}

	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.5)
	pdf.Line(x, y+height-9, x+width, y+height-9)
}

// label shrinks the label font until it fits width, down to minFontSize.
func (w *writer) label(text string, width float64) string {
	text = w.tr(text)
	for size := labelFontSize; size > minFontSize; size-- {
		w.pdf.SetFontSize(size)
		if w.pdf.GetStringWidth(text) <= width {
			return text
		}
	}
	w.pdf.SetFontSize(minFontSize)
	return text
}

// valueLines wraps text at the value font size so that every character of
// the value is drawn. Runs of whitespace collapse to one space.
func (w *writer) valueLines(text string, width float64) []string {
	text = w.tr(strings.Join(strings.Fields(text), " "))
	if text == "" {
		return nil
	}
	w.pdf.SetFont("Helvetica", "", valueFontSize)
	split := w.pdf.SplitLines([]byte(text), width)
	lines := make([]string, 0, len(split))
	for _, line := range split {
		lines = append(lines, string(line))
	}
	return lines
}

func (w *writer) image(ref string, x, y float64) bool {
	if w.r.Images == nil {
		return false
	}
	kind := imageType(ref)
	if kind == "" {
		return false
	}
	pdf := w.pdf
	if pdf.GetImageInfo(ref) == nil {
		data, err := w.r.Images(ref)
		if err != nil {
			return false
		}
		if !decodable(data, kind) {
			return false
		}
		pdf.RegisterImageOptionsReader(ref, gofpdf.ImageOptions{ImageType: kind}, bytes.NewReader(data))
	}
	pdf.ImageOptions(ref, x, y, 0, 14, false, gofpdf.ImageOptions{ImageType: kind}, 0, "")
	return true
}

func imageType(ref string) string {
	switch strings.ToLower(path.Ext(ref)) {
	case ".png":
		return "PNG"
	case ".jpg", ".jpeg":
		return "JPG"
	}
	return ""
}

// decodable parses the image on a scratch document first; a registration
// error on the real document would fail the whole render.
func decodable(data []byte, kind string) bool {
	check := gofpdf.New("P", "pt", "A4", "")
	check.RegisterImageOptionsReader("check", gofpdf.ImageOptions{ImageType: kind}, bytes.NewReader(data))
	return !check.Err()
}
