package parser

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"gazette/discovery"
	"gazette/feed"
	"gazette/sanitize"

	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"
)

const (
	fetchTimeout = 30 * time.Second

	// maxEntriesPerParse matches the storage retention cap, so a
	// pathological document never produces more entries than the store
	// would keep
	maxEntriesPerParse = 200

	// Some hosts reject requests without browser-like headers
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	acceptHeader = "application/rss+xml, application/xml, text/xml, */*"
)

// FeedParser contains the methods needed to retrieve and normalize feed
// documents
type FeedParser interface {
	Fetch(ctx context.Context, url string) (*feed.ParsedFeed, error)
	Parse(raw []byte) (*feed.ParsedFeed, error)
}

// New creates a new instance of a struct compatible with the FeedParser
// interface
func New() FeedParser {
	return &gofeedParser{
		parser: gofeed.NewParser(),
		client: &http.Client{Timeout: fetchTimeout},
	}
}

type gofeedParser struct {
	parser *gofeed.Parser
	client *http.Client
}

// Fetch retrieves the document at the given URL, parses it and runs endpoint
// discovery against the response headers and body
func (p *gofeedParser) Fetch(ctx context.Context, url string) (*feed.ParsedFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create feed request")
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch feed")
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf(
			"HTTP %d: %s",
			resp.StatusCode,
			http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read feed body")
	}

	parsed, err := p.Parse(body)
	if err != nil {
		return nil, err
	}

	parsed.HubURL, parsed.TopicURL = discovery.Endpoints(url, body, resp.Header)

	return parsed, nil
}

// Parse normalizes a raw feed document into a ParsedFeed. Entries missing a
// link or a title are dropped; bodies prefer full content over the summary
// and are sanitized before being returned
func (p *gofeedParser) Parse(raw []byte) (*feed.ParsedFeed, error) {
	gf, err := p.parser.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse feed document")
	}

	parsed := &feed.ParsedFeed{Title: gf.Title}
	for _, item := range gf.Items {
		if item == nil || item.Link == "" || item.Title == "" {
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		parsed.Entries = append(parsed.Entries, &feed.ParsedEntry{
			URL:       item.Link,
			Title:     item.Title,
			Content:   sanitize.Content(content),
			Published: published,
		})

		if len(parsed.Entries) == maxEntriesPerParse {
			break
		}
	}

	return parsed, nil
}
