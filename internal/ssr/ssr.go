// Package ssr expands the custom elements used in the dashboard templates
// into plain styled HTML on the server, so the pages work without any
// client-side element registry.
package ssr

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	buttonClass     = "btn-primary"
	riskBadgeClass  = "risk-badge"
	evidenceSlotCls = "evidence-slot"
)

// ReplaceCustomElements rewrites the template's custom elements into plain
// styled HTML.
//
//   - <button as="button-primary"> and <button-primary> become real buttons
//     with the primary styling, so form submission keeps working without any
//     client-side element registry.
//   - <risk-badge band="..."> becomes a styled span carrying the band class.
//   - <evidence-slot> picks up the upload slot styling and a data-category
//     attribute derived from its category attribute.
func ReplaceCustomElements(writer io.Writer, reader io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	doc.Find("button-primary").Each(func(_ int, s *goquery.Selection) {
		s.AddClass(buttonClass)
		s.Nodes[0].Data = "button"
	})
	doc.Find(`[as="button-primary"]`).Each(func(_ int, s *goquery.Selection) {
		s.RemoveAttr("as")
		s.AddClass(buttonClass)
	})

	doc.Find("risk-badge").Each(func(_ int, s *goquery.Selection) {
		band, _ := s.Attr("band")
		s.RemoveAttr("band")
		s.AddClass(riskBadgeClass)
		if band != "" {
			s.AddClass(fmt.Sprintf("%s-%s", riskBadgeClass, band))
		}
		s.Nodes[0].Data = "span"
	})

	doc.Find("evidence-slot").Each(func(_ int, s *goquery.Selection) {
		if category, ok := s.Attr("category"); ok {
			s.SetAttr("data-category", category)
			s.RemoveAttr("category")
		}
		s.AddClass(evidenceSlotCls)
	})

	// Full documents carry head content and render whole. Fragments arrive
	// head-less and need recovering from goquery's implicit document wrapping.
	if doc.Find("head").Children().Length() > 0 {
		if err = html.Render(writer, doc.Nodes[0]); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		return nil
	}
	body := doc.Find("body")
	if len(body.Nodes) > 0 {
		for c := body.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
			if err = html.Render(writer, c); err != nil {
				return fmt.Errorf("render html: %w", err)
			}
		}
	}
	return nil
}
