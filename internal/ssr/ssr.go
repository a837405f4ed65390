// Package ssr post-processes server rendered HTML.
package ssr

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/reelcheck/internal/errors"
	"golang.org/x/net/html"
	"io"
	"strings"
)

// componentClasses maps component names used in the templates' as attribute to CSS classes.
var componentClasses = map[string]string{
	"button-primary":   "btn btn-primary",
	"button-secondary": "btn btn-secondary",
	"button-link":      "btn btn-link",
	"badge-worthy":     "badge badge-worthy",
	"badge-not-worthy": "badge badge-not-worthy",
	"alert-error":      "alert alert-error",
	"alert-info":       "alert alert-info",
}

// ReplaceComponents resolves the as="component" attributes in the HTML document read from reader into CSS classes
// and writes the result to writer. Unknown components are left untouched so that they stand out when testing.
func ReplaceComponents(writer io.Writer, reader io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return errors.Wrap(err, "parse html")
	}

	doc.Find("[as]").Each(func(_ int, s *goquery.Selection) {
		component, _ := s.Attr("as")
		classes, ok := componentClasses[strings.TrimSpace(component)]
		if !ok {
			return
		}
		s.RemoveAttr("as")
		s.AddClass(strings.Fields(classes)...)
	})

	for _, node := range doc.Nodes {
		if err = html.Render(writer, node); err != nil {
			return errors.Wrap(err, "render html")
		}
	}
	return nil
}
