package api

import (
	"encoding/xml"
	"net/http"
	"time"

	"gazette/feed"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// OPML is the root of an OPML subscription list document
type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

// Head contains OPML metadata
type Head struct {
	Title       string `xml:"title,omitempty"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

// Body contains the outlines
type Body struct {
	Outlines []Outline `xml:"outline"`
}

// Outline represents a single outline element (folder or feed)
type Outline struct {
	Text     string    `xml:"text,attr"`
	Title    string    `xml:"title,attr,omitempty"`
	Type     string    `xml:"type,attr,omitempty"`
	XMLURL   string    `xml:"xmlUrl,attr,omitempty"`
	Outlines []Outline `xml:"outline,omitempty"`
}

func feedOutline(f *feed.Feed) Outline {
	return Outline{
		Text:   f.Title,
		Title:  f.Title,
		Type:   "rss",
		XMLURL: f.URL,
	}
}

func (a *API) exportOPMLHandler(w http.ResponseWriter, r *http.Request) {
	folders, err := a.db.Folders()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get folders")
		respondError(w, http.StatusInternalServerError, "Failed to export")
		return
	}

	feeds, err := a.db.Feeds()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get feeds")
		respondError(w, http.StatusInternalServerError, "Failed to export")
		return
	}

	doc := OPML{
		Version: "2.0",
		Head: Head{
			Title:       "Gazette subscriptions",
			DateCreated: time.Now().Format(time.RFC1123Z),
		},
	}

	for _, folder := range folders {
		folderID := folder.ID
		children := lo.Filter(feeds, func(f *feed.Feed, _ int) bool {
			return f.FolderID != nil && *f.FolderID == folderID
		})

		outline := Outline{Text: folder.Name, Title: folder.Name}
		for _, f := range children {
			outline.Outlines = append(outline.Outlines, feedOutline(f))
		}

		doc.Body.Outlines = append(doc.Body.Outlines, outline)
	}

	for _, f := range feeds {
		if f.FolderID == nil {
			doc.Body.Outlines = append(doc.Body.Outlines, feedOutline(f))
		}
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to render OPML")
		respondError(w, http.StatusInternalServerError, "Failed to export")
		return
	}

	w.Header().Set("Content-Type", "text/x-opml")
	w.Header().Set("Content-Disposition", `attachment; filename="gazette.opml"`)

	_, err = w.Write(append([]byte(xml.Header), out...))
	if err != nil {
		log.Error().Err(err).Msg("Failed to write OPML")
	}
}

func (a *API) importOPMLHandler(w http.ResponseWriter, r *http.Request) {
	var doc OPML
	err := xml.NewDecoder(r.Body).Decode(&doc)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid OPML document")
		return
	}

	imported := 0
	skipped := 0

	var importOutlines func(outlines []Outline, folderID *int64)
	importOutlines = func(outlines []Outline, folderID *int64) {
		for _, outline := range outlines {
			if outline.XMLURL == "" {
				// A folder; nested folders flatten into one level
				name := outline.Title
				if name == "" {
					name = outline.Text
				}
				if name == "" {
					continue
				}

				folder, err := a.findOrCreateFolder(name)
				if err != nil {
					log.Error().Err(err).Str("name", name).Msg("Failed to create folder")
					continue
				}

				importOutlines(outline.Outlines, &folder.ID)
				continue
			}

			existing, err := a.db.FeedByURL(outline.XMLURL)
			if err != nil {
				log.Error().Err(err).Msg("Failed to check for existing feed")
				continue
			}
			if existing != nil {
				skipped++
				continue
			}

			title := outline.Title
			if title == "" {
				title = outline.Text
			}
			if title == "" {
				title = outline.XMLURL
			}

			f := &feed.Feed{
				URL:         outline.XMLURL,
				Title:       title,
				FolderID:    folderID,
				IsAvailable: true,
				NextCheckAt: time.Now(),
			}

			err = a.db.SaveFeed(f)
			if err != nil {
				log.Error().Err(err).Str("url", f.URL).Msg("Failed to save feed")
				continue
			}

			imported++
		}
	}

	importOutlines(doc.Body.Outlines, nil)

	respondJSON(w, http.StatusOK, map[string]int{
		"imported": imported,
		"skipped":  skipped,
	})
}

func (a *API) findOrCreateFolder(name string) (*feed.Folder, error) {
	folders, err := a.db.Folders()
	if err != nil {
		return nil, err
	}

	for _, folder := range folders {
		if folder.Name == name {
			return folder, nil
		}
	}

	folder := &feed.Folder{Name: name}
	return folder, a.db.SaveFolder(folder)
}
