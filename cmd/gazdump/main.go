package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"gazette/config"
	"gazette/db"

	"github.com/rs/zerolog/log"
)

func printJSON(v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal json")
		return
	}
	fmt.Println(string(out))
}

func main() {
	dsn := flag.String("dsn", "file:/data/gazette/db.sqlite3", "DB DSN")
	pingDB := flag.Bool("ping-db", false, "ping DB")
	showFeeds := flag.Bool("feeds", false, "show feeds")
	showDue := flag.Bool("due", false, "show feeds due for a poll")
	showFolders := flag.Bool("folders", false, "show folders")
	showSubs := flag.Bool("subscriptions", false, "show push subscriptions")
	showEntriesFromFeed := flag.Int64("entries-from-feed", 0, "show entries from feed ID")

	flag.Parse()

	adb, err := db.New(&config.DBConfig{DSN: *dsn})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create DB client")
		return
	}

	defer adb.Close()

	if *pingDB {
		err = adb.Ping()
		if err != nil {
			log.Error().Err(err).Msg("Ping failed")
			return
		}
		fmt.Println("Ping succeeded")
	}

	if *showFeeds {
		feeds, err := adb.Feeds()
		if err != nil {
			log.Error().Err(err).Msg("Failed to get feeds")
			return
		}
		for _, f := range feeds {
			printJSON(f)
		}
	}

	if *showDue {
		feeds, err := adb.DueFeeds(time.Now(), 50)
		if err != nil {
			log.Error().Err(err).Msg("Failed to get due feeds")
			return
		}
		for _, f := range feeds {
			printJSON(f)
		}
	}

	if *showFolders {
		folders, err := adb.Folders()
		if err != nil {
			log.Error().Err(err).Msg("Failed to get folders")
			return
		}
		for _, folder := range folders {
			printJSON(folder)
		}
	}

	if *showSubs {
		feeds, err := adb.Feeds()
		if err != nil {
			log.Error().Err(err).Msg("Failed to get feeds")
			return
		}
		for _, f := range feeds {
			sub, err := adb.Subscription(f.ID)
			if err != nil {
				log.Error().Err(err).Msg("Failed to get subscription")
				return
			}
			if sub != nil {
				printJSON(sub)
			}
		}
	}

	if *showEntriesFromFeed > 0 {
		entries, err := adb.Entries(&db.EntryQuery{FeedID: showEntriesFromFeed})
		if err != nil {
			log.Error().Err(err).Msg("Failed to get entries")
			return
		}
		for _, e := range entries {
			printJSON(e)
		}
	}
}
