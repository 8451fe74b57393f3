package handler

import "net/http"

// Build metadata, overridden at link time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// VersionResponse represents the version endpoint payload
type VersionResponse struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
}

// HandleVersion reports the running build for deployment verification
func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, VersionResponse{
			Version:   Version,
			BuildTime: BuildTime,
		})
	}
}
