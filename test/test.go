package test

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gazette/config"
	"gazette/db"
	"gazette/feed"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func tmpDB(t *testing.T) string {
	return fmt.Sprintf(
		"/tmp/gazette/test/%d/db.sqlite3",
		time.Now().UnixNano())
}

func InitDB(t *testing.T) (*config.DBConfig, db.DB) {
	tmpDB := tmpDB(t)
	log.Info().Msgf("Initializing test DB: %s", tmpDB)

	err := os.MkdirAll(filepath.Dir(tmpDB), 0750)
	assert.NoError(t, err)

	_, err = os.Create(tmpDB)
	assert.NoError(t, err)

	dbCfg := &config.DBConfig{
		DSN: fmt.Sprintf("file:%s", tmpDB),
	}
	adb, err := db.New(dbCfg)
	assert.NoError(t, err)

	err = adb.Migrate()
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, adb.Close())
		assert.NoError(t, os.RemoveAll(filepath.Dir(tmpDB)))
	})

	return dbCfg, adb
}

func MockFeed() *feed.Feed {
	now := time.Now()
	return &feed.Feed{
		URL:         fmt.Sprintf("https://example.com/feed-%d.xml", rand.Int()),
		Title:       fmt.Sprintf("Title %d", rand.Int()),
		IsAvailable: true,
		NextCheckAt: now,
		CreatedAt:   now,
	}
}

func MockFolder() *feed.Folder {
	return &feed.Folder{
		Name: fmt.Sprintf("Folder %d", rand.Int()),
	}
}

func MockParsedEntry() *feed.ParsedEntry {
	return &feed.ParsedEntry{
		URL:       fmt.Sprintf("https://example.com/entry-%d", rand.Int()),
		Title:     fmt.Sprintf("Title %d", rand.Int()),
		Content:   fmt.Sprintf("<p>Content %d</p>", rand.Int()),
		Published: time.Now(),
	}
}

func MockParsedEntries(count int) []*feed.ParsedEntry {
	entries := make([]*feed.ParsedEntry, count)
	for i := 0; i < len(entries); i++ {
		entries[i] = MockParsedEntry()
	}
	return entries
}

func MockParsedFeed() *feed.ParsedFeed {
	return &feed.ParsedFeed{
		Title:   fmt.Sprintf("Title %d", rand.Int()),
		Entries: MockParsedEntries(2),
	}
}

func MockSubscription(feedID int64) *feed.Subscription {
	return &feed.Subscription{
		FeedID:       feedID,
		HubURL:       fmt.Sprintf("https://hub.example.com/%d", rand.Int()),
		TopicURL:     fmt.Sprintf("https://example.com/topic-%d", rand.Int()),
		Secret:       fmt.Sprintf("%064d", rand.Int63()),
		LeaseSeconds: 432000,
		ExpiresAt:    time.Now().Add(5 * 24 * time.Hour),
		IsActive:     true,
	}
}
