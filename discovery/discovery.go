package discovery

import (
	"net/http"
	"regexp"
)

// Hub and topic endpoints are advertised either through an RFC 5988 Link
// header or through link elements in the document itself. The document
// fallback has to tolerate both attribute orderings and both the plain and
// atom-prefixed element names, so each rel value gets four patterns
var (
	headerHubPattern  = regexp.MustCompile(`(?i)<([^>]+)>;\s*rel=["']?hub["']?`)
	headerSelfPattern = regexp.MustCompile(`(?i)<([^>]+)>;\s*rel=["']?self["']?`)

	hubLinkPatterns  = linkPatterns("hub")
	selfLinkPatterns = linkPatterns("self")
)

func linkPatterns(rel string) []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)<link[^>]*rel=["']` + rel + `["'][^>]*href=["']([^"']+)["']`),
		regexp.MustCompile(`(?i)<link[^>]*href=["']([^"']+)["'][^>]*rel=["']` + rel + `["']`),
		regexp.MustCompile(`(?i)<atom:link[^>]*rel=["']` + rel + `["'][^>]*href=["']([^"']+)["']`),
		regexp.MustCompile(`(?i)<atom:link[^>]*href=["']([^"']+)["'][^>]*rel=["']` + rel + `["']`),
	}
}

func firstMatch(patterns []*regexp.Regexp, body []byte) string {
	for _, pattern := range patterns {
		if m := pattern.FindSubmatch(body); m != nil {
			return string(m[1])
		}
	}

	return ""
}

// Endpoints extracts the push hub and canonical topic URLs for a feed from
// its HTTP response headers, falling back to the document's link elements.
// When a hub was advertised without a self link, the feed URL itself is used
// as the topic. Either value may be empty
func Endpoints(feedURL string, body []byte, header http.Header) (hubURL, topicURL string) {
	if link := header.Get("Link"); link != "" {
		if m := headerHubPattern.FindStringSubmatch(link); m != nil {
			hubURL = m[1]
		}
		if m := headerSelfPattern.FindStringSubmatch(link); m != nil {
			topicURL = m[1]
		}
	}

	if hubURL == "" {
		hubURL = firstMatch(hubLinkPatterns, body)
	}
	if topicURL == "" {
		topicURL = firstMatch(selfLinkPatterns, body)
	}

	if hubURL != "" && topicURL == "" {
		topicURL = feedURL
	}

	return hubURL, topicURL
}

// SelfLink extracts the canonical topic URL from a pushed feed document, or
// returns an empty string if the document carries no self link
func SelfLink(body []byte) string {
	return firstMatch(selfLinkPatterns, body)
}
