// Package svgdoc parses the SVG documents sketchreveal animates.
//
// Only <path> elements are read. Other shapes (rect, circle, ...) are
// ignored, so a document drawn without paths has nothing to animate.
package svgdoc

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"

	sferrors "github.com/matzehuels/sketchreveal/pkg/errors"
)

// DefaultViewBox is used when the root element has no viewBox attribute.
const DefaultViewBox = "0 0 200 200"

// Path is one <path> element in document order.
type Path struct {
	Index int
	D     string
}

// Document is a parsed SVG document.
type Document struct {
	ViewBox string
	Width   string
	Height  string
	Paths   []Path
}

var svgPattern = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)

// Extract returns the first <svg>...</svg> substring of text. Text without
// a match is returned unchanged.
func Extract(text string) string {
	if m := svgPattern.FindString(text); m != "" {
		return m
	}
	return text
}

// Parse parses an SVG document and collects its paths.
func Parse(text string) (*Document, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, sferrors.New(sferrors.ErrCodeEmptyInput, "Generate SVG first!")
	}

	doc := &Document{ViewBox: DefaultViewBox}
	root, err := walk(text, func(depth int, el xml.StartElement) {
		if depth == 0 {
			if vb := attr(el, "viewBox"); strings.TrimSpace(vb) != "" {
				doc.ViewBox = vb
			}
			doc.Width = attr(el, "width")
			doc.Height = attr(el, "height")
			return
		}
		if el.Name.Local == "path" {
			doc.Paths = append(doc.Paths, Path{Index: len(doc.Paths), D: attr(el, "d")})
		}
	})
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeInvalidInput, err, "Invalid SVG")
	}
	if root != "svg" {
		return nil, sferrors.New(sferrors.ErrCodeInvalidInput, "Must be <svg>")
	}
	if len(doc.Paths) == 0 {
		return nil, sferrors.New(sferrors.ErrCodeInvalidInput, "No paths found")
	}
	return doc, nil
}

// Validate checks that text is a well-formed document with an <svg> root.
func Validate(text string) error {
	root, err := walk(strings.TrimSpace(text), func(int, xml.StartElement) {})
	if err != nil {
		return err
	}
	if root != "svg" {
		return errors.New("root element is <" + root + ">, not <svg>")
	}
	return nil
}

// walk streams the XML tokens of text, calling visit for every start
// element with its nesting depth, and returns the root element's local
// name. Content after the root element is an error.
func walk(text string, visit func(depth int, el xml.StartElement)) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity

	var root string
	depth := 0
	closed := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if closed {
				return "", errors.New("extra content after document element")
			}
			if depth == 0 {
				root = t.Name.Local
			}
			visit(depth, t)
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				closed = true
			}
		case xml.CharData:
			if depth == 0 && strings.TrimSpace(string(t)) != "" {
				return "", errors.New("text outside document element")
			}
		}
	}
	if root == "" {
		return "", errors.New("no document element")
	}
	if depth != 0 {
		return "", errors.New("unexpected end of document")
	}
	return root, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}
