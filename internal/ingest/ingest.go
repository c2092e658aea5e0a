// Package ingest fetches external job postings so recruiters can import a
// posting from a URL instead of retyping it.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	fetchTimeout = 30 * time.Second
	userAgent    = "Mozilla/5.0 (compatible; CareerBridge/1.0)"

	maxDescriptionChars = 10000
)

// Posting is the job content scraped from an external page.
type Posting struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name,omitempty"`
	Description string `json:"description"`
}

// descriptionSelectors are tried in order; the first match wins. Job boards
// rarely agree on markup, so generic content containers come last.
var descriptionSelectors = []string{
	".job-description",
	"#job-description",
	".job-details",
	".posting-content",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// FetchPosting downloads the page and extracts the posting fields.
func FetchPosting(ctx context.Context, pageURL string) (*Posting, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid posting URL")
	}

	client := &http.Client{Timeout: fetchTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("posting page returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse posting page: %w", err)
	}

	posting := &Posting{
		URL:         pageURL,
		Title:       extractTitle(doc),
		CompanyName: metaContent(doc, "og:site_name"),
		Description: extractDescription(doc),
	}
	if posting.Description == "" {
		return nil, fmt.Errorf("no job description found on page")
	}
	return posting, nil
}

func extractTitle(doc *goquery.Document) string {
	if t := metaContent(doc, "og:title"); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return strings.TrimSpace(content)
}

func extractDescription(doc *goquery.Document) string {
	doc.Find("nav, footer, header, script, style, noscript, .sidebar, .cookie-banner").Remove()

	var content *goquery.Selection
	for _, selector := range descriptionSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	text := collapseWhitespace(content.Text())
	if len(text) > maxDescriptionChars {
		text = text[:maxDescriptionChars]
	}
	return text
}

func collapseWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
