package api

import (
	"net/http"
	"time"

	"naukri-scraper/utils"
)

// Start runs the HTTP server until it fails. Handlers only read and write the
// shared job snapshot, so request timeouts stay short; the scrape itself runs
// in the background.
func Start(addr string, handler http.Handler, logger *utils.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	logger.Info("[api] Listening on %s", addr)
	return srv.ListenAndServe()
}
