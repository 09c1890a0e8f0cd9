// Package rss serves a feed document from disk over HTTP. Useful for
// exercising the refresh engine against a local feed during development
package rss

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/pkg/errors"
)

// Serve blocks serving the XML file at the given path on the given port
// until the context is cancelled
func Serve(ctx context.Context, xmlPath string, port int) error {
	_, err := os.Stat(xmlPath)
	if err != nil {
		return errors.Wrap(err, "failed to stat XML file")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		http.ServeFile(w, r, xmlPath)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return errors.Wrap(err, "failed to serve RSS")
}
