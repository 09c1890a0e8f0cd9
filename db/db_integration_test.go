package db_test // 'db_test' instead of 'db' to prevent a gazette/test <- gazette/db <- gazette/test import cycle

import (
	"fmt"
	"testing"
	"time"

	"gazette/db"
	"gazette/feed"
	"gazette/test"

	"github.com/stretchr/testify/assert"
)

func TestSaveFeedAssignsIDAndPosition(t *testing.T) {
	_, testDB := test.InitDB(t)

	first := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(first))
	assert.NotEqual(t, int64(0), first.ID)

	second := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(second))

	feeds, err := testDB.Feeds()
	assert.NoError(t, err)
	assert.Len(t, feeds, 2)
	assert.Equal(t, first.URL, feeds[0].URL)
	assert.Equal(t, 0, feeds[0].Position)
	assert.Equal(t, second.URL, feeds[1].URL)
	assert.Equal(t, 1, feeds[1].Position)
}

func TestFeedReturnsNilWhenMissing(t *testing.T) {
	_, testDB := test.InitDB(t)

	f, err := testDB.Feed(42)
	assert.NoError(t, err)
	assert.Nil(t, f)

	f, err = testDB.FeedByURL("https://example.com/nope.xml")
	assert.NoError(t, err)
	assert.Nil(t, f)
}

func TestDueFeedsSelection(t *testing.T) {
	_, testDB := test.InitDB(t)

	now := time.Now()

	due := test.MockFeed()
	due.NextCheckAt = now.Add(-time.Minute)
	assert.NoError(t, testDB.SaveFeed(due))

	notYet := test.MockFeed()
	notYet.NextCheckAt = now.Add(time.Hour)
	assert.NoError(t, testDB.SaveFeed(notYet))

	unavailable := test.MockFeed()
	unavailable.IsAvailable = false
	unavailable.NextCheckAt = now.Add(-time.Minute)
	assert.NoError(t, testDB.SaveFeed(unavailable))

	pushed := test.MockFeed()
	pushed.NextCheckAt = now.Add(-time.Hour)
	assert.NoError(t, testDB.SaveFeed(pushed))
	assert.NoError(t, testDB.SaveSubscription(test.MockSubscription(pushed.ID)))

	lapsed := test.MockFeed()
	lapsed.NextCheckAt = now.Add(-2 * time.Hour)
	assert.NoError(t, testDB.SaveFeed(lapsed))
	inactiveSub := test.MockSubscription(lapsed.ID)
	inactiveSub.IsActive = false
	assert.NoError(t, testDB.SaveSubscription(inactiveSub))

	feeds, err := testDB.DueFeeds(now, 50)
	assert.NoError(t, err)

	assert.Len(t, feeds, 2)
	assert.Equal(t, lapsed.ID, feeds[0].ID)
	assert.Equal(t, due.ID, feeds[1].ID)
}

func TestDueFeedsRespectsLimit(t *testing.T) {
	_, testDB := test.InitDB(t)

	now := time.Now()
	for i := 0; i < 5; i++ {
		f := test.MockFeed()
		f.NextCheckAt = now.Add(-time.Minute)
		assert.NoError(t, testDB.SaveFeed(f))
	}

	feeds, err := testDB.DueFeeds(now, 3)
	assert.NoError(t, err)
	assert.Len(t, feeds, 3)
}

func TestMergeEntriesIsIdempotent(t *testing.T) {
	_, testDB := test.InitDB(t)

	f := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(f))

	entries := test.MockParsedEntries(3)

	inserted, err := testDB.MergeEntries(f.ID, entries)
	assert.NoError(t, err)
	assert.Equal(t, 3, inserted)

	inserted, err = testDB.MergeEntries(f.ID, entries)
	assert.NoError(t, err)
	assert.Equal(t, 0, inserted)

	stored, err := testDB.Entries(&db.EntryQuery{FeedID: &f.ID})
	assert.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestMergeEntriesPreservesReadFlags(t *testing.T) {
	_, testDB := test.InitDB(t)

	f := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(f))

	entries := test.MockParsedEntries(1)
	_, err := testDB.MergeEntries(f.ID, entries)
	assert.NoError(t, err)

	stored, err := testDB.Entries(&db.EntryQuery{FeedID: &f.ID})
	assert.NoError(t, err)

	stored[0].Read = true
	assert.NoError(t, testDB.SaveEntry(stored[0]))

	_, err = testDB.MergeEntries(f.ID, entries)
	assert.NoError(t, err)

	reloaded, err := testDB.Entry(stored[0].ID)
	assert.NoError(t, err)
	assert.True(t, reloaded.Read)
}

func TestMergeEntriesTrimsToRetentionCap(t *testing.T) {
	_, testDB := test.InitDB(t)

	f := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(f))

	base := time.Now().Add(-300 * time.Hour)
	entries := make([]*feed.ParsedEntry, 210)
	for i := range entries {
		entries[i] = &feed.ParsedEntry{
			URL:       fmt.Sprintf("https://example.com/entry-%d", i),
			Title:     fmt.Sprintf("Entry %d", i),
			Published: base.Add(time.Duration(i) * time.Hour),
		}
	}

	_, err := testDB.MergeEntries(f.ID, entries)
	assert.NoError(t, err)

	stored, err := testDB.Entries(&db.EntryQuery{FeedID: &f.ID})
	assert.NoError(t, err)
	assert.Len(t, stored, 200)

	// Newest first; the 10 oldest entries are gone
	assert.Equal(t, "https://example.com/entry-209", stored[0].URL)
	assert.Equal(t, "https://example.com/entry-10", stored[199].URL)
}

func TestApplyRefreshPersistsFeedAndEntriesTogether(t *testing.T) {
	_, testDB := test.InitDB(t)

	f := test.MockFeed()
	f.FailureCount = 3
	assert.NoError(t, testDB.SaveFeed(f))

	now := time.Now()
	f.FailureCount = 0
	f.LastFetchedAt = &now
	f.NextCheckAt = now.Add(15 * time.Minute)
	f.HubURL = "https://hub.example.com/"

	inserted, err := testDB.ApplyRefresh(f, test.MockParsedEntries(2))
	assert.NoError(t, err)
	assert.Equal(t, 2, inserted)

	reloaded, err := testDB.Feed(f.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, reloaded.FailureCount)
	assert.NotNil(t, reloaded.LastFetchedAt)
	assert.Equal(t, "https://hub.example.com/", reloaded.HubURL)

	stored, err := testDB.Entries(&db.EntryQuery{FeedID: &f.ID})
	assert.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestDeleteFeedCascades(t *testing.T) {
	_, testDB := test.InitDB(t)

	f := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(f))

	_, err := testDB.MergeEntries(f.ID, test.MockParsedEntries(2))
	assert.NoError(t, err)
	assert.NoError(t, testDB.SaveSubscription(test.MockSubscription(f.ID)))

	assert.NoError(t, testDB.DeleteFeed(f.ID))

	entries, err := testDB.Entries(&db.EntryQuery{FeedID: &f.ID})
	assert.NoError(t, err)
	assert.Empty(t, entries)

	sub, err := testDB.Subscription(f.ID)
	assert.NoError(t, err)
	assert.Nil(t, sub)
}

func TestDeleteFolderKeepsFeeds(t *testing.T) {
	_, testDB := test.InitDB(t)

	folder := test.MockFolder()
	assert.NoError(t, testDB.SaveFolder(folder))

	f := test.MockFeed()
	f.FolderID = &folder.ID
	assert.NoError(t, testDB.SaveFeed(f))

	assert.NoError(t, testDB.DeleteFolder(folder.ID))

	reloaded, err := testDB.Feed(f.ID)
	assert.NoError(t, err)
	assert.NotNil(t, reloaded)
	assert.Nil(t, reloaded.FolderID)
}

func TestReorderFeeds(t *testing.T) {
	_, testDB := test.InitDB(t)

	a := test.MockFeed()
	b := test.MockFeed()
	c := test.MockFeed()
	for _, f := range []*feed.Feed{a, b, c} {
		assert.NoError(t, testDB.SaveFeed(f))
	}

	assert.NoError(t, testDB.ReorderFeeds([]int64{c.ID, a.ID, b.ID}))

	feeds, err := testDB.Feeds()
	assert.NoError(t, err)
	assert.Equal(t, c.ID, feeds[0].ID)
	assert.Equal(t, a.ID, feeds[1].ID)
	assert.Equal(t, b.ID, feeds[2].ID)
}

func TestClearReadEntriesKeepsStarred(t *testing.T) {
	_, testDB := test.InitDB(t)

	f := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(f))

	_, err := testDB.MergeEntries(f.ID, test.MockParsedEntries(3))
	assert.NoError(t, err)

	stored, err := testDB.Entries(&db.EntryQuery{FeedID: &f.ID})
	assert.NoError(t, err)

	stored[0].Read = true
	stored[1].Read = true
	stored[1].Starred = true
	assert.NoError(t, testDB.SaveEntry(stored[0]))
	assert.NoError(t, testDB.SaveEntry(stored[1]))

	cleared, err := testDB.ClearReadEntries()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	remaining, err := testDB.Entries(&db.EntryQuery{FeedID: &f.ID})
	assert.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestUnreadCounts(t *testing.T) {
	_, testDB := test.InitDB(t)

	folder := test.MockFolder()
	assert.NoError(t, testDB.SaveFolder(folder))

	filed := test.MockFeed()
	filed.FolderID = &folder.ID
	assert.NoError(t, testDB.SaveFeed(filed))

	unfiled := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(unfiled))

	_, err := testDB.MergeEntries(filed.ID, test.MockParsedEntries(2))
	assert.NoError(t, err)
	_, err = testDB.MergeEntries(unfiled.ID, test.MockParsedEntries(3))
	assert.NoError(t, err)

	stored, err := testDB.Entries(&db.EntryQuery{FeedID: &unfiled.ID})
	assert.NoError(t, err)
	stored[0].Read = true
	assert.NoError(t, testDB.SaveEntry(stored[0]))

	counts, err := testDB.UnreadCounts()
	assert.NoError(t, err)

	assert.Equal(t, 4, counts.Total)
	assert.Equal(t, 2, counts.ByFeed[filed.ID])
	assert.Equal(t, 2, counts.ByFeed[unfiled.ID])
	assert.Equal(t, 2, counts.ByFolder[folder.ID])
}

func TestEntriesUnreadOnlyFilter(t *testing.T) {
	_, testDB := test.InitDB(t)

	f := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(f))

	_, err := testDB.MergeEntries(f.ID, test.MockParsedEntries(2))
	assert.NoError(t, err)

	stored, err := testDB.Entries(&db.EntryQuery{FeedID: &f.ID})
	assert.NoError(t, err)
	stored[0].Read = true
	assert.NoError(t, testDB.SaveEntry(stored[0]))

	unread, err := testDB.Entries(&db.EntryQuery{FeedID: &f.ID, UnreadOnly: true})
	assert.NoError(t, err)
	assert.Len(t, unread, 1)
	assert.Equal(t, stored[1].ID, unread[0].ID)
}

func TestSubscriptionRoundTrip(t *testing.T) {
	_, testDB := test.InitDB(t)

	f := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(f))

	sub := test.MockSubscription(f.ID)
	assert.NoError(t, testDB.SaveSubscription(sub))
	assert.NotEqual(t, int64(0), sub.ID)

	byFeed, err := testDB.Subscription(f.ID)
	assert.NoError(t, err)
	assert.Equal(t, sub.TopicURL, byFeed.TopicURL)
	assert.Equal(t, sub.Secret, byFeed.Secret)

	byTopic, err := testDB.SubscriptionByTopic(sub.TopicURL)
	assert.NoError(t, err)
	assert.Equal(t, sub.ID, byTopic.ID)

	sub.IsActive = false
	sub.ErrorCount = 2
	assert.NoError(t, testDB.SaveSubscription(sub))

	reloaded, err := testDB.Subscription(f.ID)
	assert.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, 2, reloaded.ErrorCount)
}

func TestExpiringSubscriptionsWindowAndOrder(t *testing.T) {
	_, testDB := test.InitDB(t)

	now := time.Now()

	soonFeed := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(soonFeed))
	soon := test.MockSubscription(soonFeed.ID)
	soon.ExpiresAt = now.Add(24 * time.Hour)
	assert.NoError(t, testDB.SaveSubscription(soon))

	soonerFeed := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(soonerFeed))
	sooner := test.MockSubscription(soonerFeed.ID)
	sooner.ExpiresAt = now.Add(time.Hour)
	assert.NoError(t, testDB.SaveSubscription(sooner))

	laterFeed := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(laterFeed))
	later := test.MockSubscription(laterFeed.ID)
	later.ExpiresAt = now.Add(120 * time.Hour)
	assert.NoError(t, testDB.SaveSubscription(later))

	inactiveFeed := test.MockFeed()
	assert.NoError(t, testDB.SaveFeed(inactiveFeed))
	inactive := test.MockSubscription(inactiveFeed.ID)
	inactive.ExpiresAt = now.Add(time.Hour)
	inactive.IsActive = false
	assert.NoError(t, testDB.SaveSubscription(inactive))

	subs, err := testDB.ExpiringSubscriptions(now.Add(48*time.Hour), 20)
	assert.NoError(t, err)

	assert.Len(t, subs, 2)
	assert.Equal(t, sooner.ID, subs[0].ID)
	assert.Equal(t, soon.ID, subs[1].ID)
}
