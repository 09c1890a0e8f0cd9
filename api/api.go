package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gazette/db"
	"gazette/feed"
	"gazette/middleware"
	"gazette/parser"
	"gazette/refresh"
	"gazette/websub"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// maxNotificationBytes bounds the size of a pushed document read into memory
const maxNotificationBytes = 10 << 20

// API exposes the sync engine and the record-keeping surface over HTTP. The
// handlers only extract parameters and format responses; every decision
// lives in the packages they call into
type API struct {
	db        db.DB
	parser    parser.FeedParser
	refresher *refresh.Refresher
	manager   *websub.Manager
}

// New creates the API with its injected collaborators
func New(adb db.DB, p parser.FeedParser, r *refresh.Refresher, m *websub.Manager) *API {
	return &API{
		db:        adb,
		parser:    p,
		refresher: r,
		manager:   m,
	}
}

// Routes mounts every endpoint on the given router
func (a *API) Routes(r chi.Router) {
	r.With(middleware.ThrottleMiddlewareFunc).
		Post("/api/refresh", a.refreshHandler)

	r.Get("/api/websub/callback", a.verificationHandler)
	r.Post("/api/websub/callback", a.notificationHandler)
	r.Post("/api/websub/renew", a.renewHandler)

	r.Get("/api/feeds", a.listFeedsHandler)
	r.Post("/api/feeds", a.createFeedHandler)
	r.Put("/api/feeds/{id}", a.updateFeedHandler)
	r.Delete("/api/feeds/{id}", a.deleteFeedHandler)
	r.Post("/api/feeds/reorder", a.reorderFeedsHandler)

	r.Get("/api/folders", a.listFoldersHandler)
	r.Post("/api/folders", a.createFolderHandler)
	r.Put("/api/folders/{id}", a.updateFolderHandler)
	r.Delete("/api/folders/{id}", a.deleteFolderHandler)
	r.Post("/api/folders/reorder", a.reorderFoldersHandler)

	r.Get("/api/entries", a.listEntriesHandler)
	r.Patch("/api/entries/{id}", a.updateEntryHandler)
	r.Post("/api/entries/clear", a.clearEntriesHandler)

	r.Get("/api/counts", a.countsHandler)

	r.Get("/api/opml/export", a.exportOPMLHandler)
	r.Post("/api/opml/import", a.importOPMLHandler)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to render json")
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func urlParamID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (a *API) refreshHandler(w http.ResponseWriter, r *http.Request) {
	result, err := a.refresher.Refresh(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Refresh cycle failed")
		respondError(w, http.StatusInternalServerError, "Failed to refresh feeds")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (a *API) verificationHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	mode := queryParams.Get("hub.mode")
	topic := queryParams.Get("hub.topic")
	challenge := queryParams.Get("hub.challenge")

	if mode == "" || topic == "" || challenge == "" {
		respondError(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	leaseSeconds, _ := strconv.Atoi(queryParams.Get("hub.lease_seconds"))

	err := a.manager.HandleVerification(mode, topic, leaseSeconds)
	if errors.Is(err, websub.ErrUnknownTopic) {
		respondError(w, http.StatusNotFound, "Unknown topic")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Verification failed")
		respondError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	// Echoing the challenge verbatim is the protocol's proof of intent
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)

	_, err = w.Write([]byte(challenge))
	if err != nil {
		log.Error().Err(err).Msg("Failed to write challenge")
	}
}

func (a *API) notificationHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxNotificationBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	err = a.manager.HandleNotification(
		r.Context(),
		body,
		r.Header.Get("X-Hub-Signature"))

	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, websub.ErrNoTopic):
		respondError(w, http.StatusBadRequest, "Cannot determine topic")
	case errors.Is(err, websub.ErrUnknownTopic):
		respondError(w, http.StatusNotFound, "No active subscription")
	case errors.Is(err, websub.ErrUnsupportedAlgorithm):
		respondError(w, http.StatusBadRequest, "Unsupported algorithm")
	case errors.Is(err, websub.ErrInvalidSignature):
		respondError(w, http.StatusForbidden, "Invalid signature")
	case errors.Is(err, websub.ErrBadPayload):
		respondError(w, http.StatusBadRequest, "Invalid XML")
	default:
		log.Error().Err(err).Msg("Notification processing failed")
		respondError(w, http.StatusInternalServerError, "Internal error")
	}
}

func (a *API) renewHandler(w http.ResponseWriter, r *http.Request) {
	result, err := a.manager.RenewExpiring(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Renewal run failed")
		respondError(w, http.StatusInternalServerError, "Failed to process renewals")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (a *API) listFeedsHandler(w http.ResponseWriter, r *http.Request) {
	feeds, err := a.db.Feeds()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get feeds")
		respondError(w, http.StatusInternalServerError, "Failed to fetch feeds")
		return
	}

	if feeds == nil {
		feeds = []*feed.Feed{}
	}

	respondJSON(w, http.StatusOK, feeds)
}

func (a *API) createFeedHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL      string `json:"url"`
		FolderID *int64 `json:"folderId"`
	}

	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil || body.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return
	}

	parsedURL, err := url.Parse(body.URL)
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		respondError(w, http.StatusBadRequest, "URL must use http:// or https://")
		return
	}

	existing, err := a.db.FeedByURL(body.URL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check for existing feed")
		respondError(w, http.StatusInternalServerError, "Failed to create feed")
		return
	}
	if existing != nil {
		respondError(w, http.StatusBadRequest, "Feed URL already exists")
		return
	}

	if body.FolderID != nil {
		folder, err := a.db.Folder(*body.FolderID)
		if err != nil || folder == nil {
			respondError(w, http.StatusBadRequest, "Folder not found")
			return
		}
	}

	// The title is fetched synchronously so the subscription request can
	// fail without the user noticing anything beyond a log line
	parsed, err := a.parser.Fetch(r.Context(), body.URL)
	if err != nil {
		respondError(
			w,
			http.StatusUnprocessableEntity,
			"Failed to fetch feed: "+err.Error())
		return
	}

	title := parsed.Title
	if title == "" {
		title = body.URL
	}

	f := &feed.Feed{
		URL:         body.URL,
		Title:       title,
		FolderID:    body.FolderID,
		IsAvailable: true,
		NextCheckAt: time.Now(),
		HubURL:      parsed.HubURL,
		TopicURL:    parsed.TopicURL,
	}

	err = a.db.SaveFeed(f)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save feed")
		respondError(w, http.StatusInternalServerError, "Failed to create feed")
		return
	}

	if f.HubURL != "" && f.TopicURL != "" {
		a.manager.SubscribeAsync(f.ID, f.HubURL, f.TopicURL)
	}

	respondJSON(w, http.StatusCreated, f)
}

func (a *API) updateFeedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid feed ID")
		return
	}

	f, err := a.db.Feed(id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get feed")
		respondError(w, http.StatusInternalServerError, "Failed to update feed")
		return
	}
	if f == nil {
		respondError(w, http.StatusNotFound, "Feed not found")
		return
	}

	var body struct {
		Title    *string         `json:"title"`
		FolderID json.RawMessage `json:"folderId"`
	}

	err = json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	if body.Title != nil {
		f.Title = *body.Title
		f.CustomTitle = true
	}

	if body.FolderID != nil {
		if string(body.FolderID) == "null" {
			f.FolderID = nil
		} else {
			var folderID int64
			err = json.Unmarshal(body.FolderID, &folderID)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid folder ID")
				return
			}

			folder, err := a.db.Folder(folderID)
			if err != nil || folder == nil {
				respondError(w, http.StatusBadRequest, "Folder not found")
				return
			}

			f.FolderID = &folderID
		}
	}

	err = a.db.SaveFeed(f)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save feed")
		respondError(w, http.StatusInternalServerError, "Failed to update feed")
		return
	}

	respondJSON(w, http.StatusOK, f)
}

func (a *API) deleteFeedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid feed ID")
		return
	}

	f, err := a.db.Feed(id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get feed")
		respondError(w, http.StatusInternalServerError, "Failed to delete feed")
		return
	}
	if f == nil {
		respondError(w, http.StatusNotFound, "Feed not found")
		return
	}

	sub, err := a.db.Subscription(id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get subscription")
	}
	if sub != nil {
		// Best-effort; deletion proceeds whatever the hub says
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		a.manager.Unsubscribe(ctx, sub)
	}

	err = a.db.DeleteFeed(id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete feed")
		respondError(w, http.StatusInternalServerError, "Failed to delete feed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) reorderFeedsHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []int64 `json:"ids"`
	}

	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	err = a.db.ReorderFeeds(body.IDs)
	if err != nil {
		log.Error().Err(err).Msg("Failed to reorder feeds")
		respondError(w, http.StatusInternalServerError, "Failed to reorder feeds")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listFoldersHandler(w http.ResponseWriter, r *http.Request) {
	folders, err := a.db.Folders()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get folders")
		respondError(w, http.StatusInternalServerError, "Failed to fetch folders")
		return
	}

	if folders == nil {
		folders = []*feed.Folder{}
	}

	respondJSON(w, http.StatusOK, folders)
}

func (a *API) createFolderHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}

	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil || body.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	folder := &feed.Folder{Name: body.Name}
	err = a.db.SaveFolder(folder)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save folder")
		respondError(w, http.StatusInternalServerError, "Failed to create folder")
		return
	}

	respondJSON(w, http.StatusCreated, folder)
}

func (a *API) updateFolderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid folder ID")
		return
	}

	folder, err := a.db.Folder(id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get folder")
		respondError(w, http.StatusInternalServerError, "Failed to update folder")
		return
	}
	if folder == nil {
		respondError(w, http.StatusNotFound, "Folder not found")
		return
	}

	var body struct {
		Name string `json:"name"`
	}

	err = json.NewDecoder(r.Body).Decode(&body)
	if err != nil || body.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	folder.Name = body.Name
	err = a.db.SaveFolder(folder)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save folder")
		respondError(w, http.StatusInternalServerError, "Failed to update folder")
		return
	}

	respondJSON(w, http.StatusOK, folder)
}

func (a *API) deleteFolderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid folder ID")
		return
	}

	err = a.db.DeleteFolder(id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete folder")
		respondError(w, http.StatusInternalServerError, "Failed to delete folder")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) reorderFoldersHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []int64 `json:"ids"`
	}

	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	err = a.db.ReorderFolders(body.IDs)
	if err != nil {
		log.Error().Err(err).Msg("Failed to reorder folders")
		respondError(w, http.StatusInternalServerError, "Failed to reorder folders")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listEntriesHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	q := &db.EntryQuery{}

	if s := queryParams.Get("feedId"); s != "" {
		feedID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid feed ID")
			return
		}
		q.FeedID = &feedID
	}

	if s := queryParams.Get("folderId"); s != "" {
		folderID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid folder ID")
			return
		}
		q.FolderID = &folderID
	}

	q.UnreadOnly = queryParams.Get("unread") == "true"

	if s := queryParams.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		q.Limit = limit
	}

	entries, err := a.db.Entries(q)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get entries")
		respondError(w, http.StatusInternalServerError, "Failed to fetch entries")
		return
	}

	if entries == nil {
		entries = []*feed.Entry{}
	}

	respondJSON(w, http.StatusOK, entries)
}

func (a *API) updateEntryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	entry, err := a.db.Entry(id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get entry")
		respondError(w, http.StatusInternalServerError, "Failed to update entry")
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "Entry not found")
		return
	}

	var body struct {
		Read    *bool `json:"read"`
		Starred *bool `json:"starred"`
	}

	err = json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	if body.Read != nil {
		entry.Read = *body.Read
	}
	if body.Starred != nil {
		entry.Starred = *body.Starred
	}

	err = a.db.SaveEntry(entry)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save entry")
		respondError(w, http.StatusInternalServerError, "Failed to update entry")
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

func (a *API) clearEntriesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := a.db.ClearReadEntries()
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear entries")
		respondError(w, http.StatusInternalServerError, "Failed to clear entries")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"cleared": count})
}

func (a *API) countsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := a.db.UnreadCounts()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get unread counts")
		respondError(w, http.StatusInternalServerError, "Failed to fetch counts")
		return
	}

	respondJSON(w, http.StatusOK, counts)
}
