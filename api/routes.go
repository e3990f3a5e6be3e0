package api

import "net/http"

// Routes wires the HTTP surface. CORS headers are set on every response so a
// browser-hosted frontend on another origin can poll the API.
func Routes(h Handlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", h.Health)
	mux.HandleFunc("/api/scrape", h.Scrape)
	mux.HandleFunc("/api/status", h.Status)
	mux.HandleFunc("/api/results", h.Results)
	mux.HandleFunc("/api/config", h.ConfigInfo)
	return cors(mux)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
