package parser_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gazette/parser"

	"github.com/stretchr/testify/assert"
)

func rssDocument(items ...string) []byte {
	return []byte(fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
<channel>
<title>Test Feed</title>
<link>https://example.com</link>
%s
</channel>
</rss>`,
		strings.Join(items, "\n")))
}

func rssItem(link, title, description string) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>%s</link><description><![CDATA[%s]]></description></item>`,
		title, link, description)
}

func TestParseNormalizesItems(t *testing.T) {
	p := parser.New()

	parsed, err := p.Parse(rssDocument(
		rssItem("https://example.com/1", "First", "<p>Body</p>")))
	assert.NoError(t, err)

	assert.Equal(t, "Test Feed", parsed.Title)
	assert.Len(t, parsed.Entries, 1)
	assert.Equal(t, "https://example.com/1", parsed.Entries[0].URL)
	assert.Equal(t, "First", parsed.Entries[0].Title)
	assert.Equal(t, "<p>Body</p>", parsed.Entries[0].Content)
	assert.False(t, parsed.Entries[0].Published.IsZero())
}

func TestParseDropsItemsMissingLinkOrTitle(t *testing.T) {
	p := parser.New()

	parsed, err := p.Parse(rssDocument(
		`<item><title>No link</title></item>`,
		`<item><link>https://example.com/no-title</link></item>`,
		rssItem("https://example.com/ok", "Kept", "body")))
	assert.NoError(t, err)

	assert.Len(t, parsed.Entries, 1)
	assert.Equal(t, "https://example.com/ok", parsed.Entries[0].URL)
}

func TestParseSanitizesContent(t *testing.T) {
	p := parser.New()

	parsed, err := p.Parse(rssDocument(
		rssItem(
			"https://example.com/1",
			"First",
			`<p>ok</p><script>alert(1)</script>`)))
	assert.NoError(t, err)

	assert.NotContains(t, parsed.Entries[0].Content, "<script")
	assert.Contains(t, parsed.Entries[0].Content, "<p>ok</p>")
}

func TestParseCapsEntriesInDocumentOrder(t *testing.T) {
	items := make([]string, 250)
	for i := range items {
		items[i] = rssItem(
			fmt.Sprintf("https://example.com/%d", i),
			fmt.Sprintf("Item %d", i),
			"body")
	}

	p := parser.New()
	parsed, err := p.Parse(rssDocument(items...))
	assert.NoError(t, err)

	assert.Len(t, parsed.Entries, 200)
	assert.Equal(t, "https://example.com/0", parsed.Entries[0].URL)
	assert.Equal(t, "https://example.com/199", parsed.Entries[199].URL)
}

func TestParseReturnsErrorOnMalformedDocument(t *testing.T) {
	p := parser.New()

	_, err := p.Parse([]byte("this is not xml"))
	assert.Error(t, err)
}

func TestFetchParsesAndDiscoversEndpoints(t *testing.T) {
	doc := []byte(fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
<channel>
<title>Test Feed</title>
<atom:link rel="hub" href="https://hub.example.com/"/>
<atom:link rel="self" href="https://example.com/topic"/>
%s
</channel>
</rss>`,
		rssItem("https://example.com/1", "First", "body")))

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "application/rss+xml")
			_, err := w.Write(doc)
			assert.NoError(t, err)
		}))
	defer srv.Close()

	p := parser.New()
	parsed, err := p.Fetch(context.Background(), srv.URL)
	assert.NoError(t, err)

	assert.Equal(t, "Test Feed", parsed.Title)
	assert.Len(t, parsed.Entries, 1)
	assert.Equal(t, "https://hub.example.com/", parsed.HubURL)
	assert.Equal(t, "https://example.com/topic", parsed.TopicURL)
}

func TestFetchReturnsErrorOnNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
	defer srv.Close()

	p := parser.New()
	_, err := p.Fetch(context.Background(), srv.URL)
	assert.EqualError(t, err, "HTTP 404: Not Found")
}
