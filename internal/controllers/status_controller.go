package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"ghvault/internal/archive"
	"ghvault/internal/providers"
	"ghvault/internal/services"
)

// StatusController exposes read-only inspection endpoints for a run in
// flight: live counters and the durable progress record.
type StatusController struct {
	status   services.RunStatusServiceInterface
	progress *archive.ProgressStore
	logger   providers.Logger
}

func NewStatusController(status services.RunStatusServiceInterface, progress *archive.ProgressStore, logger providers.Logger) *StatusController {
	return &StatusController{
		status:   status,
		progress: progress,
		logger:   logger,
	}
}

// GetStatus returns the live run counters.
func (sc *StatusController) GetStatus(w http.ResponseWriter, r *http.Request) {
	sc.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "%s %s", r.Method, r.URL.Path)
	sc.writeJSON(w, sc.status.Snapshot())
}

// GetProcessed returns the persisted progress record: version, last
// update time, and every processed day key.
func (sc *StatusController) GetProcessed(w http.ResponseWriter, r *http.Request) {
	sc.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "%s %s", r.Method, r.URL.Path)
	sc.writeJSON(w, sc.progress.Snapshot())
}

func (sc *StatusController) writeJSON(w http.ResponseWriter, payload interface{}) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
