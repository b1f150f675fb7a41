package cite

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/starford/muninn/internal/models"
)

const defaultUserAgent = "muninn/1.0"

// Fetcher scrapes citation metadata from web pages. The zero value uses
// http.DefaultClient and the default user agent.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewFetcher returns a Fetcher with its own client and timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch performs one synchronous round trip to pageURL and scrapes
// title, author, and publication date from the page. Callers own any
// retry policy; a failed fetch or parse returns the zero record with
// the error, and fields the page does not declare stay empty.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (models.PageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return models.PageMetadata{}, fmt.Errorf("cite: build request: %w", err)
	}
	ua := f.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.PageMetadata{}, fmt.Errorf("cite: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PageMetadata{}, fmt.Errorf("cite: fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return models.PageMetadata{}, fmt.Errorf("cite: parse %s: %w", pageURL, err)
	}
	return scrape(doc), nil
}

// candidates holds the first occurrence of every interesting node found
// in one walk of the page.
type candidates struct {
	metaName     map[string]string
	metaProp     map[string]string
	itemprops    map[string]string
	titleTag     string
	timeDatetime string
}

// scrape resolves each metadata field by priority among the candidates:
// dedicated meta tags first, then alternate declarations, then element
// text.
func scrape(doc *html.Node) models.PageMetadata {
	c := &candidates{
		metaName:  make(map[string]string),
		metaProp:  make(map[string]string),
		itemprops: make(map[string]string),
	}
	c.walk(doc)
	return models.PageMetadata{
		Title:  firstOf(c.metaName["title"], c.metaProp["og:title"], c.titleTag),
		Author: firstOf(c.metaName["author"], c.metaProp["article:author"], c.itemprops["author"]),
		Date:   firstOf(c.metaProp["article:published_time"], c.metaName["date"], c.timeDatetime, c.itemprops["datepublished"]),
	}
}

func (c *candidates) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "meta":
			content := attr(n, "content")
			if name := strings.ToLower(attr(n, "name")); name != "" {
				setFirst(c.metaName, name, content)
			}
			if prop := strings.ToLower(attr(n, "property")); prop != "" {
				setFirst(c.metaProp, prop, content)
			}
		case "title":
			if c.titleTag == "" {
				c.titleTag = textContent(n)
			}
		case "time":
			if dt := attr(n, "datetime"); dt != "" && c.timeDatetime == "" {
				c.timeDatetime = dt
			}
		}
		if prop := strings.ToLower(attr(n, "itemprop")); prop != "" {
			value := attr(n, "content")
			if value == "" {
				value = textContent(n)
			}
			setFirst(c.itemprops, prop, value)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}
}

func setFirst(m map[string]string, key, value string) {
	if _, ok := m[key]; !ok && strings.TrimSpace(value) != "" {
		m[key] = strings.TrimSpace(value)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return strings.TrimSpace(b.String())
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
