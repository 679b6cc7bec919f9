package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title:     "Doe intern onboarding",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Pages: []Page{
			{
				Title: "APPLICATION FOR EMPLOYMENT",
				Sections: []Section{
					{Heading: "Personal Information", Fields: []Field{
						Text("First Name", "Jane"),
						Text("Last Name", "Doe"),
						Text("Middle Name", ""),
						Wide("Address", "1 Main St, Miami, FL"),
						Signature("Signature", "/image/sig.png"),
					}},
				},
			},
			{
				Title: "EMPLOYEE'S WITHHOLDING CERTIFICATE",
				Sections: []Section{
					{Heading: "Step 1", Columns: 3, Fields: []Field{
						Text("Marital Status", "single"),
						Text("Dependents", strings.Repeat("very long value ", 20)),
					}},
				},
			},
		},
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestRenderer(t *testing.T, loads *int) *Renderer {
	sig := pngBytes(t)
	return NewRenderer(Letterhead{Name: "ACME", Lines: []string{"1 Main St", "PH: 555"}}, "ACME", func(ref string) ([]byte, error) {
		if loads != nil {
			*loads++
		}
		if ref == "/image/sig.png" {
			return sig, nil
		}
		return nil, errors.New("missing")
	})
}

func TestRenderProducesPDF(t *testing.T) {
	loads := 0
	data, err := newTestRenderer(t, &loads).Render(context.Background(), sampleDocument())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected pdf header, got %q", data[:8])
	}
	if loads != 1 {
		t.Fatalf("expected signature image to be loaded once, got %d", loads)
	}
}

func TestRenderIsByteIdentical(t *testing.T) {
	r := newTestRenderer(t, nil)
	first, err := r.Render(context.Background(), sampleDocument())
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := r.Render(context.Background(), sampleDocument())
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical output for the same document")
	}
}

func TestRenderToleratesBrokenImages(t *testing.T) {
	r := NewRenderer(Letterhead{Name: "ACME"}, "", func(string) ([]byte, error) {
		return []byte("not a png"), nil
	})
	if _, err := r.Render(context.Background(), sampleDocument()); err != nil {
		t.Fatalf("expected broken image to fall back to text, got %v", err)
	}
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocking := NewRenderer(Letterhead{Name: "ACME"}, "", func(string) ([]byte, error) {
		time.Sleep(200 * time.Millisecond)
		return nil, errors.New("slow")
	})
	if _, err := blocking.Render(ctx, sampleDocument()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestManyRowsSpillOntoContinuationPage(t *testing.T) {
	fields := make([]Field, 0, 80)
	for i := 0; i < 80; i++ {
		fields = append(fields, Text("Row", "value"))
	}
	doc := Document{Title: "long", Pages: []Page{{Title: "LONG", Sections: []Section{{Heading: "Rows", Fields: fields}}}}}
	data, err := NewRenderer(Letterhead{Name: "ACME"}, "", nil).Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if bytes.Count(data, []byte("/Type /Page\n")) < 2 {
		t.Fatal("expected more than one page")
	}
}

func newTestWriter() *writer {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), r: NewRenderer(Letterhead{Name: "ACME"}, "", nil)}
}

func longAddress(words int) string {
	parts := make([]string, 0, words)
	for i := 0; i < words; i++ {
		parts = append(parts, fmt.Sprintf("Apt%d", i))
	}
	return strings.Join(parts, " ")
}

func TestLongValuesWrapInsteadOfTruncating(t *testing.T) {
	value := longAddress(80)
	require.Greater(t, len(value), 400)

	w := newTestWriter()
	for _, width := range []float64{contentWidth, (contentWidth - columnGap) / 2} {
		lines := w.valueLines(value, width)
		require.Greater(t, len(lines), 1)
		assert.Equal(t, value, strings.Join(lines, " "))
		for _, line := range lines {
			assert.LessOrEqual(t, w.pdf.GetStringWidth(line), width)
		}
	}
}

func TestLongValueIsDrawnInFull(t *testing.T) {
	value := longAddress(80)
	w := newTestWriter()
	y := w.section(Section{Heading: "Address", Fields: []Field{
		Text("City", "Miami"),
		Text("Street", value),
		Text("State", "FL"),
	}}, w.contentTop())
	lines := w.valueLines(value, (contentWidth-columnGap)/2)

	var buf bytes.Buffer
	require.NoError(t, w.pdf.Output(&buf))
	out := buf.String()
	for _, line := range lines {
		assert.Contains(t, out, "("+line+") Tj")
	}
	assert.NotContains(t, out, "...")
	assert.Contains(t, out, "(FL) Tj")
	assert.Greater(t, y, w.contentTop()+barHeight+rowHeight*2+float64(len(lines)-1)*lineHeight)
}

func TestValueTallerThanAPageContinuesOnNextPage(t *testing.T) {
	value := longAddress(3000)
	w := newTestWriter()
	w.section(Section{Fields: []Field{Wide("Notes", value)}}, w.contentTop())

	require.Greater(t, w.pdf.PageNo(), 1)
	lines := w.valueLines(value, contentWidth)

	var buf bytes.Buffer
	require.NoError(t, w.pdf.Output(&buf))
	out := buf.String()
	assert.Contains(t, out, "(Notes \\(continued\\)) Tj")
	for _, line := range lines {
		assert.Contains(t, out, "("+line+") Tj")
	}
}

func TestRowsKeepWideFieldsAlone(t *testing.T) {
	got := rows([]Field{Text("a", ""), Wide("b", ""), Text("c", ""), Text("d", ""), Text("e", "")}, 2)
	require.Len(t, got, 4)
	assert.Len(t, got[0], 1)
	assert.True(t, got[1][0].Wide)
	assert.Len(t, got[2], 2)
	assert.Equal(t, "e", got[3][0].Label)
}
