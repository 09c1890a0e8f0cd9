package discovery

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

const feedURL = "https://example.com/feed.xml"

func TestEndpointsFromLinkHeader(t *testing.T) {
	header := http.Header{}
	header.Set(
		"Link",
		`<https://hub.example.com/>; rel="hub", <https://example.com/topic>; rel="self"`)

	hub, topic := Endpoints(feedURL, nil, header)
	assert.Equal(t, "https://hub.example.com/", hub)
	assert.Equal(t, "https://example.com/topic", topic)
}

func TestEndpointsFromDocumentLinks(t *testing.T) {
	documents := map[string]string{
		"rel first": `<rss><channel>
			<link rel="hub" href="https://hub.example.com/"/>
			<link rel="self" href="https://example.com/topic"/>
		</channel></rss>`,
		"href first": `<rss><channel>
			<link href="https://hub.example.com/" rel="hub"/>
			<link href="https://example.com/topic" rel="self"/>
		</channel></rss>`,
		"atom rel first": `<rss><channel>
			<atom:link rel="hub" href="https://hub.example.com/"/>
			<atom:link rel="self" href="https://example.com/topic"/>
		</channel></rss>`,
		"atom href first": `<rss><channel>
			<atom:link href="https://hub.example.com/" rel="hub"/>
			<atom:link href="https://example.com/topic" rel="self"/>
		</channel></rss>`,
	}

	for name, doc := range documents {
		hub, topic := Endpoints(feedURL, []byte(doc), http.Header{})
		assert.Equal(t, "https://hub.example.com/", hub, name)
		assert.Equal(t, "https://example.com/topic", topic, name)
	}
}

func TestEndpointsHeaderTakesPrecedenceOverDocument(t *testing.T) {
	header := http.Header{}
	header.Set("Link", `<https://header-hub.example.com/>; rel=hub`)

	doc := `<rss><channel>
		<atom:link rel="hub" href="https://doc-hub.example.com/"/>
	</channel></rss>`

	hub, _ := Endpoints(feedURL, []byte(doc), header)
	assert.Equal(t, "https://header-hub.example.com/", hub)
}

func TestEndpointsTopicFallsBackToFeedURL(t *testing.T) {
	doc := `<rss><channel>
		<atom:link rel="hub" href="https://hub.example.com/"/>
	</channel></rss>`

	hub, topic := Endpoints(feedURL, []byte(doc), http.Header{})
	assert.Equal(t, "https://hub.example.com/", hub)
	assert.Equal(t, feedURL, topic)
}

func TestEndpointsEmptyWithoutHub(t *testing.T) {
	doc := `<rss><channel><title>No push here</title></channel></rss>`

	hub, topic := Endpoints(feedURL, []byte(doc), http.Header{})
	assert.Empty(t, hub)
	assert.Empty(t, topic)
}

func TestSelfLink(t *testing.T) {
	doc := `<rss><channel>
		<atom:link rel="self" href="https://example.com/topic"/>
	</channel></rss>`

	assert.Equal(t, "https://example.com/topic", SelfLink([]byte(doc)))
	assert.Empty(t, SelfLink([]byte("<rss><channel></channel></rss>")))
}
