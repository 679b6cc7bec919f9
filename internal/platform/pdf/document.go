// Package pdf draws form documents with gofpdf. Callers describe pages as
// sections of labelled fields; layout is fixed so a blank value still
// occupies its slot.
package pdf

import "time"

type Document struct {
	Title     string
	Author    string
	CreatedAt time.Time
	Pages     []Page
}

type Page struct {
	Title    string
	Sections []Section
}

type Section struct {
	Heading string
	// Columns defaults to 2.
	Columns int
	Fields  []Field
}

type Field struct {
	Label string
	Value string
	// Image is an upload reference drawn in place of Value when it
	// resolves to a PNG or JPEG.
	Image string
	Wide  bool
}

// Letterhead is printed at the top of every page.
type Letterhead struct {
	Name  string
	Lines []string
}

func Text(label, value string) Field {
	return Field{Label: label, Value: value}
}

func Wide(label, value string) Field {
	return Field{Label: label, Value: value, Wide: true}
}

func Signature(label, ref string) Field {
	return Field{Label: label, Value: ref, Image: ref}
}
