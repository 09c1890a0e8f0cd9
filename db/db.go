package db

import (
	"database/sql"
	"embed"
	"time"

	"gazette/config"
	"gazette/feed"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/samber/lo"
)

//go:embed migrations/*.sql
var migrations embed.FS

// retentionCap is the maximum number of entries kept per feed; older entries
// (by published timestamp) are deleted by the trim step
const retentionCap = 200

// EntryQuery restricts the entries returned by Entries
type EntryQuery struct {
	FeedID     *int64
	FolderID   *int64
	UnreadOnly bool
	Limit      int
}

// DB contains the methods needed to store and read data from the underlying
// database
type DB interface {
	Ping() error
	Migrate() error
	Close() error

	Feeds() ([]*feed.Feed, error)
	Feed(id int64) (*feed.Feed, error)
	FeedByURL(url string) (*feed.Feed, error)
	DueFeeds(now time.Time, limit int) ([]*feed.Feed, error)
	SaveFeed(*feed.Feed) error
	DeleteFeed(id int64) error
	ReorderFeeds(ids []int64) error
	RecordFeedFailure(*feed.Feed) error
	ApplyRefresh(*feed.Feed, []*feed.ParsedEntry) (int, error)
	MergeEntries(feedID int64, entries []*feed.ParsedEntry) (int, error)

	Folders() ([]*feed.Folder, error)
	Folder(id int64) (*feed.Folder, error)
	SaveFolder(*feed.Folder) error
	DeleteFolder(id int64) error
	ReorderFolders(ids []int64) error

	Entries(q *EntryQuery) ([]*feed.Entry, error)
	Entry(id int64) (*feed.Entry, error)
	SaveEntry(*feed.Entry) error
	ClearReadEntries() (int64, error)
	UnreadCounts() (*feed.UnreadCounts, error)

	Subscription(feedID int64) (*feed.Subscription, error)
	SubscriptionByTopic(topic string) (*feed.Subscription, error)
	SaveSubscription(*feed.Subscription) error
	ExpiringSubscriptions(before time.Time, limit int) ([]*feed.Subscription, error)
}

// New creates a struct which supports the operations in the DB interface
func New(cfg *config.DBConfig) (DB, error) {
	sdb, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open DB")
	}

	_, err = sdb.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, errors.Wrap(err, "failed to enable foreign keys")
	}

	return &sqlDB{db: sdb}, nil
}

type sqlDB struct {
	db *sql.DB
}

func (sdb *sqlDB) Ping() error {
	return errors.Wrap(sdb.db.Ping(), "failed to ping DB")
}

func (sdb *sqlDB) Migrate() error {
	goose.SetBaseFS(migrations)

	err := goose.SetDialect("sqlite3")
	if err != nil {
		return errors.Wrap(err, "failed to set goose DB driver")
	}

	return errors.Wrap(goose.Up(sdb.db, "migrations"), "migrations failed")
}

func (sdb *sqlDB) Close() error {
	return errors.Wrap(sdb.db.Close(), "failed to close DB")
}

// inTransaction runs fn inside a single transaction, rolling back on error.
// Every read-modify-write sequence of the sync engine goes through here so a
// partial write is never observable from outside
func (sdb *sqlDB) inTransaction(fn func(tx *sql.Tx) error) error {
	tx, err := sdb.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to create DB transaction")
	}

	defer tx.Rollback()

	err = fn(tx)
	if err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(), "failed to commit DB transaction")
}

const feedColumns = `id, url, title, custom_title, folder_id, position,
	failure_count, is_available, last_fetched_at, next_check_at, hub_url,
	topic_url, created_at`

type scanner interface {
	Scan(...interface{}) error
}

func scanFeed(s scanner) (*feed.Feed, error) {
	var f feed.Feed
	var folderID sql.NullInt64
	var lastFetched sql.NullTime

	err := s.Scan(
		&f.ID, &f.URL, &f.Title, &f.CustomTitle, &folderID, &f.Position,
		&f.FailureCount, &f.IsAvailable, &lastFetched, &f.NextCheckAt,
		&f.HubURL, &f.TopicURL, &f.CreatedAt)
	if err != nil {
		return nil, err
	}

	if folderID.Valid {
		f.FolderID = &folderID.Int64
	}
	if lastFetched.Valid {
		f.LastFetchedAt = &lastFetched.Time
	}

	return &f, nil
}

func (sdb *sqlDB) queryFeeds(query string, args ...interface{}) ([]*feed.Feed, error) {
	rows, err := sdb.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query feeds")
	}

	defer rows.Close()

	var feeds []*feed.Feed
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan feed")
		}

		feeds = append(feeds, f)
	}

	return feeds, errors.Wrap(rows.Err(), "failed to read feed rows")
}

func (sdb *sqlDB) Feeds() ([]*feed.Feed, error) {
	return sdb.queryFeeds(
		"SELECT " + feedColumns + " FROM feeds ORDER BY position ASC")
}

func (sdb *sqlDB) Feed(id int64) (*feed.Feed, error) {
	row := sdb.db.QueryRow(
		"SELECT "+feedColumns+" FROM feeds WHERE id = ?", id)

	f, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return f, errors.Wrap(err, "failed to get feed")
}

func (sdb *sqlDB) FeedByURL(url string) (*feed.Feed, error) {
	row := sdb.db.QueryRow(
		"SELECT "+feedColumns+" FROM feeds WHERE url = ?", url)

	f, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return f, errors.Wrap(err, "failed to get feed by URL")
}

// DueFeeds selects the poll candidates: available, past their next-check
// time, and without a confirmed push subscription. A feed the hub is pushing
// to is never polled
func (sdb *sqlDB) DueFeeds(now time.Time, limit int) ([]*feed.Feed, error) {
	return sdb.queryFeeds(
		`SELECT f.id, f.url, f.title, f.custom_title, f.folder_id,
			f.position, f.failure_count, f.is_available,
			f.last_fetched_at, f.next_check_at, f.hub_url, f.topic_url,
			f.created_at
		FROM feeds f
		LEFT JOIN subscriptions s ON s.feed_id = f.id
		WHERE f.is_available = 1
			AND f.next_check_at <= ?
			AND (s.id IS NULL OR s.is_active = 0)
		ORDER BY f.next_check_at ASC
		LIMIT ?`,
		now, limit)
}

func updateFeedTx(tx *sql.Tx, f *feed.Feed) error {
	_, err := tx.Exec(
		`UPDATE feeds SET url = ?, title = ?, custom_title = ?,
			folder_id = ?, position = ?, failure_count = ?,
			is_available = ?, last_fetched_at = ?, next_check_at = ?,
			hub_url = ?, topic_url = ?
		WHERE id = ?`,
		f.URL, f.Title, f.CustomTitle, f.FolderID, f.Position,
		f.FailureCount, f.IsAvailable, f.LastFetchedAt, f.NextCheckAt,
		f.HubURL, f.TopicURL, f.ID)

	return err
}

func (sdb *sqlDB) SaveFeed(f *feed.Feed) error {
	if f.ID != 0 {
		return errors.Wrap(
			sdb.inTransaction(func(tx *sql.Tx) error {
				return updateFeedTx(tx, f)
			}),
			"failed to update feed")
	}

	f.CreatedAt = time.Now()

	// New feeds go to the end of the ordering
	res, err := sdb.db.Exec(
		`INSERT INTO feeds (url, title, custom_title, folder_id, position,
			failure_count, is_available, last_fetched_at, next_check_at,
			hub_url, topic_url, created_at)
		VALUES (?, ?, ?, ?,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM feeds),
			?, ?, ?, ?, ?, ?, ?)`,
		f.URL, f.Title, f.CustomTitle, f.FolderID, f.FailureCount,
		f.IsAvailable, f.LastFetchedAt, f.NextCheckAt, f.HubURL,
		f.TopicURL, f.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to insert feed")
	}

	f.ID, err = res.LastInsertId()
	return errors.Wrap(err, "failed to get inserted feed ID")
}

func (sdb *sqlDB) DeleteFeed(id int64) error {
	// Entries and the subscription cascade via foreign keys
	_, err := sdb.db.Exec("DELETE FROM feeds WHERE id = ?", id)
	return errors.Wrap(err, "failed to delete feed")
}

func (sdb *sqlDB) ReorderFeeds(ids []int64) error {
	return errors.Wrap(
		sdb.inTransaction(func(tx *sql.Tx) error {
			for position, id := range ids {
				_, err := tx.Exec(
					"UPDATE feeds SET position = ? WHERE id = ?",
					position, id)
				if err != nil {
					return err
				}
			}

			return nil
		}),
		"failed to reorder feeds")
}

// RecordFeedFailure persists the health columns of a feed after a failed
// fetch. This runs even though the fetch itself failed, so the backoff
// schedule keeps advancing
func (sdb *sqlDB) RecordFeedFailure(f *feed.Feed) error {
	_, err := sdb.db.Exec(
		`UPDATE feeds SET failure_count = ?, is_available = ?,
			next_check_at = ?
		WHERE id = ?`,
		f.FailureCount, f.IsAvailable, f.NextCheckAt, f.ID)

	return errors.Wrap(err, "failed to record feed failure")
}

func mergeEntriesTx(tx *sql.Tx, feedID int64, entries []*feed.ParsedEntry) (int, error) {
	rows, err := tx.Query("SELECT url FROM entries WHERE feed_id = ?", feedID)
	if err != nil {
		return 0, err
	}

	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return 0, err
		}

		existing[url] = true
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	newEntries := lo.Filter(entries, func(e *feed.ParsedEntry, _ int) bool {
		return !existing[e.URL]
	})

	for _, e := range newEntries {
		_, err := tx.Exec(
			`INSERT INTO entries (feed_id, url, title, content,
				published, read, starred)
			VALUES (?, ?, ?, ?, ?, 0, 0)`,
			feedID, e.URL, e.Title, e.Content, e.Published)
		if err != nil {
			return 0, err
		}
	}

	return len(newEntries), nil
}

func trimEntriesTx(tx *sql.Tx, feedID int64) error {
	_, err := tx.Exec(
		`DELETE FROM entries
		WHERE feed_id = ?
			AND id NOT IN (
				SELECT id FROM entries
				WHERE feed_id = ?
				ORDER BY published DESC, id DESC
				LIMIT ?)`,
		feedID, feedID, retentionCap)

	return err
}

// ApplyRefresh persists the outcome of a successful poll as one atomic unit:
// the entry merge, the retention trim and the feed metadata update
func (sdb *sqlDB) ApplyRefresh(f *feed.Feed, entries []*feed.ParsedEntry) (int, error) {
	var inserted int
	err := sdb.inTransaction(func(tx *sql.Tx) error {
		var err error
		inserted, err = mergeEntriesTx(tx, f.ID, entries)
		if err != nil {
			return err
		}

		err = trimEntriesTx(tx, f.ID)
		if err != nil {
			return err
		}

		return updateFeedTx(tx, f)
	})

	return inserted, errors.Wrap(err, "failed to apply refresh")
}

// MergeEntries inserts the not-yet-stored entries for a feed and trims the
// retention cap, as one atomic unit. Calling it twice with the same set is a
// no-op the second time
func (sdb *sqlDB) MergeEntries(feedID int64, entries []*feed.ParsedEntry) (int, error) {
	var inserted int
	err := sdb.inTransaction(func(tx *sql.Tx) error {
		var err error
		inserted, err = mergeEntriesTx(tx, feedID, entries)
		if err != nil {
			return err
		}

		return trimEntriesTx(tx, feedID)
	})

	return inserted, errors.Wrap(err, "failed to merge entries")
}

func (sdb *sqlDB) Folders() ([]*feed.Folder, error) {
	rows, err := sdb.db.Query(
		"SELECT id, name, position FROM folders ORDER BY position ASC")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query folders")
	}

	defer rows.Close()

	var folders []*feed.Folder
	for rows.Next() {
		var f feed.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.Position); err != nil {
			return nil, errors.Wrap(err, "failed to scan folder")
		}

		folders = append(folders, &f)
	}

	return folders, errors.Wrap(rows.Err(), "failed to read folder rows")
}

func (sdb *sqlDB) Folder(id int64) (*feed.Folder, error) {
	var f feed.Folder
	err := sdb.db.QueryRow(
		"SELECT id, name, position FROM folders WHERE id = ?", id).
		Scan(&f.ID, &f.Name, &f.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return &f, errors.Wrap(err, "failed to get folder")
}

func (sdb *sqlDB) SaveFolder(f *feed.Folder) error {
	if f.ID != 0 {
		_, err := sdb.db.Exec(
			"UPDATE folders SET name = ?, position = ? WHERE id = ?",
			f.Name, f.Position, f.ID)
		return errors.Wrap(err, "failed to update folder")
	}

	res, err := sdb.db.Exec(
		`INSERT INTO folders (name, position)
		VALUES (?, (SELECT COALESCE(MAX(position) + 1, 0) FROM folders))`,
		f.Name)
	if err != nil {
		return errors.Wrap(err, "failed to insert folder")
	}

	f.ID, err = res.LastInsertId()
	return errors.Wrap(err, "failed to get inserted folder ID")
}

func (sdb *sqlDB) DeleteFolder(id int64) error {
	// Feeds in the folder survive; folder_id is set NULL by the FK
	_, err := sdb.db.Exec("DELETE FROM folders WHERE id = ?", id)
	return errors.Wrap(err, "failed to delete folder")
}

func (sdb *sqlDB) ReorderFolders(ids []int64) error {
	return errors.Wrap(
		sdb.inTransaction(func(tx *sql.Tx) error {
			for position, id := range ids {
				_, err := tx.Exec(
					"UPDATE folders SET position = ? WHERE id = ?",
					position, id)
				if err != nil {
					return err
				}
			}

			return nil
		}),
		"failed to reorder folders")
}

const entryColumns = "id, feed_id, url, title, content, published, read, starred"

func (sdb *sqlDB) Entries(q *EntryQuery) ([]*feed.Entry, error) {
	query := "SELECT " + entryColumns + " FROM entries WHERE 1 = 1"
	var args []interface{}

	if q.FeedID != nil {
		query += " AND feed_id = ?"
		args = append(args, *q.FeedID)
	}
	if q.FolderID != nil {
		query += " AND feed_id IN (SELECT id FROM feeds WHERE folder_id = ?)"
		args = append(args, *q.FolderID)
	}
	if q.UnreadOnly {
		query += " AND read = 0"
	}

	query += " ORDER BY published DESC"

	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := sdb.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query entries")
	}

	defer rows.Close()

	var entries []*feed.Entry
	for rows.Next() {
		var e feed.Entry
		err := rows.Scan(
			&e.ID, &e.FeedID, &e.URL, &e.Title, &e.Content,
			&e.Published, &e.Read, &e.Starred)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan entry")
		}

		entries = append(entries, &e)
	}

	return entries, errors.Wrap(rows.Err(), "failed to read entry rows")
}

func (sdb *sqlDB) Entry(id int64) (*feed.Entry, error) {
	var e feed.Entry
	err := sdb.db.QueryRow(
		"SELECT "+entryColumns+" FROM entries WHERE id = ?", id).
		Scan(&e.ID, &e.FeedID, &e.URL, &e.Title, &e.Content, &e.Published,
			&e.Read, &e.Starred)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return &e, errors.Wrap(err, "failed to get entry")
}

// SaveEntry only persists the read/star flags; entry content is immutable
// once merged
func (sdb *sqlDB) SaveEntry(e *feed.Entry) error {
	_, err := sdb.db.Exec(
		"UPDATE entries SET read = ?, starred = ? WHERE id = ?",
		e.Read, e.Starred, e.ID)

	return errors.Wrap(err, "failed to save entry")
}

func (sdb *sqlDB) ClearReadEntries() (int64, error) {
	res, err := sdb.db.Exec(
		"DELETE FROM entries WHERE read = 1 AND starred = 0")
	if err != nil {
		return 0, errors.Wrap(err, "failed to clear read entries")
	}

	count, err := res.RowsAffected()
	return count, errors.Wrap(err, "failed to get cleared entry count")
}

func (sdb *sqlDB) UnreadCounts() (*feed.UnreadCounts, error) {
	rows, err := sdb.db.Query(
		`SELECT f.id, f.folder_id, COUNT(e.id)
		FROM feeds f
		JOIN entries e ON e.feed_id = f.id AND e.read = 0
		GROUP BY f.id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query unread counts")
	}

	defer rows.Close()

	counts := &feed.UnreadCounts{
		ByFolder: make(map[int64]int),
		ByFeed:   make(map[int64]int),
	}

	for rows.Next() {
		var feedID int64
		var folderID sql.NullInt64
		var count int
		if err := rows.Scan(&feedID, &folderID, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan unread count")
		}

		counts.Total += count
		counts.ByFeed[feedID] = count
		if folderID.Valid {
			counts.ByFolder[folderID.Int64] += count
		}
	}

	return counts, errors.Wrap(rows.Err(), "failed to read unread count rows")
}

const subscriptionColumns = `id, feed_id, hub_url, topic_url, secret,
	lease_seconds, expires_at, is_active, error_count, last_error`

func scanSubscription(s scanner) (*feed.Subscription, error) {
	var sub feed.Subscription
	err := s.Scan(
		&sub.ID, &sub.FeedID, &sub.HubURL, &sub.TopicURL, &sub.Secret,
		&sub.LeaseSeconds, &sub.ExpiresAt, &sub.IsActive, &sub.ErrorCount,
		&sub.LastError)
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (sdb *sqlDB) Subscription(feedID int64) (*feed.Subscription, error) {
	row := sdb.db.QueryRow(
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE feed_id = ?",
		feedID)

	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return sub, errors.Wrap(err, "failed to get subscription")
}

func (sdb *sqlDB) SubscriptionByTopic(topic string) (*feed.Subscription, error) {
	row := sdb.db.QueryRow(
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE topic_url = ?",
		topic)

	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return sub, errors.Wrap(err, "failed to get subscription by topic")
}

func (sdb *sqlDB) SaveSubscription(sub *feed.Subscription) error {
	if sub.ID != 0 {
		_, err := sdb.db.Exec(
			`UPDATE subscriptions SET hub_url = ?, topic_url = ?,
				secret = ?, lease_seconds = ?, expires_at = ?,
				is_active = ?, error_count = ?, last_error = ?
			WHERE id = ?`,
			sub.HubURL, sub.TopicURL, sub.Secret, sub.LeaseSeconds,
			sub.ExpiresAt, sub.IsActive, sub.ErrorCount, sub.LastError,
			sub.ID)
		return errors.Wrap(err, "failed to update subscription")
	}

	res, err := sdb.db.Exec(
		`INSERT INTO subscriptions (feed_id, hub_url, topic_url, secret,
			lease_seconds, expires_at, is_active, error_count, last_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.FeedID, sub.HubURL, sub.TopicURL, sub.Secret,
		sub.LeaseSeconds, sub.ExpiresAt, sub.IsActive, sub.ErrorCount,
		sub.LastError)
	if err != nil {
		return errors.Wrap(err, "failed to insert subscription")
	}

	sub.ID, err = res.LastInsertId()
	return errors.Wrap(err, "failed to get inserted subscription ID")
}

// ExpiringSubscriptions selects active subscriptions whose lease runs out
// before the given time, oldest expiry first
func (sdb *sqlDB) ExpiringSubscriptions(before time.Time, limit int) ([]*feed.Subscription, error) {
	rows, err := sdb.db.Query(
		`SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE is_active = 1 AND expires_at <= ?
		ORDER BY expires_at ASC
		LIMIT ?`,
		before, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query expiring subscriptions")
	}

	defer rows.Close()

	var subs []*feed.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan subscription")
		}

		subs = append(subs, sub)
	}

	return subs, errors.Wrap(rows.Err(), "failed to read subscription rows")
}
