package scrape

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
)

// extractPage normalizes a raw response body into a Page for the
// requested format. HTML goes through goquery; JSON is pretty-printed;
// everything else passes through as plain text.
func extractPage(body []byte, contentType string, format Format, maxChars int) (*Page, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	contentType = normalizeContentType(contentType)
	var (
		content string
		mime    string
		title   string
	)
	switch {
	case strings.Contains(contentType, "text/html"), strings.Contains(contentType, "application/xhtml"):
		html := string(body)
		title = pageTitle(html)
		switch format {
		case FormatHTML:
			content = html
			mime = "text/html"
		case FormatText:
			text, err := htmlToText(html)
			if err != nil {
				return nil, err
			}
			content = text
			mime = "text/plain"
		default:
			md, err := htmlToMarkdown(html, title)
			if err != nil {
				return nil, err
			}
			content = md
			mime = "text/markdown"
		}
	case strings.Contains(contentType, "application/json"):
		var decoded any
		if err := json.Unmarshal(body, &decoded); err == nil {
			pretty, _ := json.MarshalIndent(decoded, "", "  ")
			content = string(pretty)
		} else {
			content = string(body)
		}
		mime = "application/json"
	default:
		content = string(body)
		mime = "text/plain"
	}

	rawLength := len(content)
	content, truncated := truncateContent(content, maxChars)
	return &Page{
		Content:   content,
		MimeType:  mime,
		Title:     title,
		Truncated: truncated,
		RawLength: rawLength,
	}, nil
}

func truncateContent(s string, maxChars int) (string, bool) {
	if maxChars <= 0 || len(s) <= maxChars {
		return s, false
	}
	return s[:maxChars] + "...[truncated]", true
}

func normalizeContentType(value string) string {
	if value == "" {
		return "application/octet-stream"
	}
	parts := strings.Split(value, ";")
	return strings.TrimSpace(strings.ToLower(parts[0]))
}

// pageTitle prefers the OpenGraph title over <title>.
func pageTitle(html string) string {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(html)); err == nil && strings.TrimSpace(og.Title) != "" {
		return strings.TrimSpace(og.Title)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, iframe").Remove()
	body := doc.Find("body")
	if body.Length() == 0 {
		return collapseWhitespace(doc.Text()), nil
	}
	return collapseWhitespace(body.Text()), nil
}

// htmlToMarkdown produces a light markdown rendition: title header,
// headings, paragraphs, list items and links. It is not a full HTML
// renderer; hosted backends return richer markdown when available.
func htmlToMarkdown(html, title string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, iframe").Remove()

	var b strings.Builder
	if title != "" {
		b.WriteString("# ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}

	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote").Each(func(_ int, sel *goquery.Selection) {
		text := collapseWhitespace(sel.Text())
		if text == "" {
			return
		}
		switch goquery.NodeName(sel) {
		case "h1":
			b.WriteString("# " + text + "\n\n")
		case "h2":
			b.WriteString("## " + text + "\n\n")
		case "h3":
			b.WriteString("### " + text + "\n\n")
		case "h4", "h5", "h6":
			b.WriteString("#### " + text + "\n\n")
		case "li":
			b.WriteString("- " + text + "\n")
		case "pre":
			b.WriteString("```\n" + sel.Text() + "\n```\n\n")
		case "blockquote":
			b.WriteString("> " + text + "\n\n")
		default:
			b.WriteString(text + "\n\n")
		}
	})

	out := strings.TrimSpace(b.String())
	if out == "" {
		// Pages without block elements still have text worth keeping.
		return htmlToText(html)
	}
	return out, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
