package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/docsynth/layoutfix/internal/box"
	"github.com/docsynth/layoutfix/internal/boxfile"
)

// WriteHOCR renders pages as an hOCR document: one ocr_page per page and
// one ocr_carea per box, in box order.
func WriteHOCR(w io.Writer, pages []Page) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, "lang", "en")
	doc.AppendChild(root)

	head := element(atom.Head)
	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: "Layout regions"})
	head.AppendChild(title)
	head.AppendChild(element(atom.Meta, "http-equiv", "Content-Type", "content", "text/html; charset=utf-8"))
	head.AppendChild(element(atom.Meta, "name", "ocr-system", "content", "layoutfix"))
	head.AppendChild(element(atom.Meta, "name", "ocr-capabilities", "content", "ocr_page ocr_carea"))
	head.AppendChild(element(atom.Meta, "name", "ocr-number-of-pages", "content", strconv.Itoa(len(pages))))
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)

	for pi, page := range pages {
		pageTitle := fmt.Sprintf("image %q; bbox 0 0 %s %s; ppageno %d",
			page.Name, coord(page.Dimensions.Width), coord(page.Dimensions.Height), pi)
		pageNode := element(atom.Div, "class", "ocr_page", "id", fmt.Sprintf("page_%d", pi+1), "title", pageTitle)
		body.AppendChild(pageNode)

		for bi, b := range page.Boxes {
			areaTitle := fmt.Sprintf("bbox %s %s %s %s; x_label %s; x_image %s; x_order %d",
				coord(b.Left()), coord(b.Top()), coord(b.Right()), coord(b.Bottom()),
				b.Label, b.ImageID, bi)
			pageNode.AppendChild(element(atom.Div, "class", "ocr_carea", "id", b.ID, "title", areaTitle))
		}
	}

	return html.Render(w, doc)
}

// ReadHOCR parses a document written by WriteHOCR back into pages.
// Areas missing a bbox are skipped.
func ReadHOCR(r io.Reader) ([]Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var pages []Page
	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "ocr_page") {
			pages = append(pages, readPage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if len(pages) == 0 {
		return nil, errors.New("no ocr_page elements found in hOCR data")
	}
	return pages, nil
}

func readPage(n *html.Node) Page {
	props := parseTitle(attr(n, "title"))

	var page Page
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.Name = strings.Trim(strings.Join(image, " "), `"`)
	}
	if bbox, ok := props["bbox"]; ok && len(bbox) >= 4 {
		w, _ := strconv.ParseFloat(bbox[2], 64)
		h, _ := strconv.ParseFloat(bbox[3], 64)
		page.Dimensions = boxfile.Dimensions{Height: h, Width: w}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || !hasClass(c, "ocr_carea") {
			continue
		}
		areaProps := parseTitle(attr(c, "title"))
		bbox, ok := areaProps["bbox"]
		if !ok || len(bbox) < 4 {
			continue
		}
		var v [4]float64
		valid := true
		for i := range v {
			f, err := strconv.ParseFloat(bbox[i], 64)
			if err != nil {
				valid = false
				break
			}
			v[i] = f
		}
		if !valid {
			continue
		}

		b, err := box.New(strings.Join(areaProps["x_label"], " "), v[0], v[1], v[2]-v[0], v[3]-v[1], attr(c, "id"), first(areaProps["x_image"]))
		if err != nil {
			continue
		}
		page.Boxes = append(page.Boxes, b)
	}
	return page
}

// parseTitle splits an hOCR title like "bbox 1 2 3 4; x_wconf 95".
func parseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(strings.TrimSpace(part))
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

func element(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
