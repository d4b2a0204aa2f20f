package web

import (
	"bytes"
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

const maxLinks = 50

var ErrBinaryContent = errors.New("web: binary content")

// PageSummary is a readable rendering of a response body.
type PageSummary struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Text        string   `json:"text"`
	Links       []string `json:"links"`
}

// Summarize renders body for reading. HTML is converted to Markdown with
// its title, description and links extracted; other text is returned as
// is. Non-text content yields ErrBinaryContent.
func Summarize(pageURL, contentType string, body []byte) (*PageSummary, error) {
	lowerCT := strings.ToLower(contentType)
	isHTML := strings.Contains(lowerCT, "text/html")
	isText := strings.HasPrefix(lowerCT, "text/") ||
		strings.Contains(lowerCT, "javascript") ||
		strings.Contains(lowerCT, "json") ||
		strings.Contains(lowerCT, "xml")
	if !isText {
		return nil, ErrBinaryContent
	}
	if !isHTML {
		return &PageSummary{URL: pageURL, Text: string(body)}, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	// Remove non-visible elements
	doc.Find("script, style, noscript, iframe, object, embed, img, video, picture, svg, canvas, audio, source, track, map, area, form, label, input, button, select, textarea, progress").Remove()

	ps := &PageSummary{
		URL:         pageURL,
		Title:       strings.TrimSpace(doc.Find("head > title").First().Text()),
		Description: strings.TrimSpace(doc.Find("meta[name=description]").AttrOr("content", "")),
		Links:       extractLinks(doc, pageURL),
	}

	plainText := strings.Join(strings.Fields(doc.Find("body").Text()), " ")

	// Links are listed separately.
	doc.Find("a").Remove()

	htmlStr, err := doc.Html()
	if err != nil {
		return nil, err
	}
	markdown, err := htmltomarkdown.ConvertString(htmlStr)
	if err != nil {
		ps.Text = plainText
	} else {
		ps.Text = markdown
	}
	return ps, nil
}

// extractLinks returns absolute, fragment-free http(s) links, sorted and
// capped at maxLinks.
func extractLinks(doc *goquery.Document, pageURL string) []string {
	base, _ := url.Parse(pageURL)
	set := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if !u.IsAbs() && base != nil {
			u = base.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		u.Fragment = ""
		set[u.String()] = struct{}{}
	})

	links := make([]string, 0, len(set))
	for l := range set {
		links = append(links, l)
	}
	sort.Strings(links)
	if len(links) > maxLinks {
		links = links[:maxLinks]
	}
	return links
}
