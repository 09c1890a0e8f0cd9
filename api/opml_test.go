package api_test

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gazette/feed"
	"gazette/mock_db"
	"gazette/mock_parser"
	"gazette/test"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

const opmlDocument = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>Subscriptions</title></head>
  <body>
    <outline text="News">
      <outline text="Filed Feed" type="rss" xmlUrl="https://example.com/filed.xml"/>
    </outline>
    <outline text="Loose Feed" type="rss" xmlUrl="https://example.com/loose.xml"/>
    <outline text="Already There" type="rss" xmlUrl="https://example.com/dup.xml"/>
  </body>
</opml>`

func TestImportOPMLCreatesFoldersAndFeeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adb := mock_db.NewMockDB(ctrl)
	adb.EXPECT().Folders().Return(nil, nil)
	adb.EXPECT().
		SaveFolder(gomock.Any()).
		DoAndReturn(func(f *feed.Folder) error {
			assert.Equal(t, "News", f.Name)
			f.ID = 1
			return nil
		})

	adb.EXPECT().
		FeedByURL("https://example.com/filed.xml").
		Return(nil, nil)
	adb.EXPECT().
		FeedByURL("https://example.com/loose.xml").
		Return(nil, nil)
	adb.EXPECT().
		FeedByURL("https://example.com/dup.xml").
		Return(test.MockFeed(), nil)

	var saved []*feed.Feed
	adb.EXPECT().
		SaveFeed(gomock.Any()).
		DoAndReturn(func(f *feed.Feed) error {
			saved = append(saved, f)
			return nil
		}).
		Times(2)

	router := newRouter(adb, mock_parser.NewMockFeedParser(ctrl))

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/opml/import",
		strings.NewReader(opmlDocument))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result map[string]int
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 2, result["imported"])
	assert.Equal(t, 1, result["skipped"])

	assert.Equal(t, "https://example.com/filed.xml", saved[0].URL)
	assert.NotNil(t, saved[0].FolderID)
	assert.Equal(t, int64(1), *saved[0].FolderID)
	assert.Equal(t, "https://example.com/loose.xml", saved[1].URL)
	assert.Nil(t, saved[1].FolderID)
}

func TestImportOPMLRejectsInvalidDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := newRouter(
		mock_db.NewMockDB(ctrl),
		mock_parser.NewMockFeedParser(ctrl))

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/opml/import",
		strings.NewReader("not opml"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportOPMLNestsFeedsUnderFolders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	folder := &feed.Folder{ID: 1, Name: "News"}

	filed := test.MockFeed()
	filed.FolderID = &folder.ID
	loose := test.MockFeed()

	adb := mock_db.NewMockDB(ctrl)
	adb.EXPECT().Folders().Return([]*feed.Folder{folder}, nil)
	adb.EXPECT().Feeds().Return([]*feed.Feed{filed, loose}, nil)

	router := newRouter(adb, mock_parser.NewMockFeedParser(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/api/opml/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/x-opml", rec.Header().Get("Content-Type"))

	var doc struct {
		Body struct {
			Outlines []struct {
				Text     string `xml:"text,attr"`
				XMLURL   string `xml:"xmlUrl,attr"`
				Outlines []struct {
					XMLURL string `xml:"xmlUrl,attr"`
				} `xml:"outline"`
			} `xml:"outline"`
		} `xml:"body"`
	}
	assert.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))

	assert.Len(t, doc.Body.Outlines, 2)
	assert.Equal(t, "News", doc.Body.Outlines[0].Text)
	assert.Len(t, doc.Body.Outlines[0].Outlines, 1)
	assert.Equal(t, filed.URL, doc.Body.Outlines[0].Outlines[0].XMLURL)
	assert.Equal(t, loose.URL, doc.Body.Outlines[1].XMLURL)
}
