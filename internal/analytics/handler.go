package analytics

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// Handler serves the analytics API. store may be nil when snapshot
// persistence is disabled; the history endpoints then report 503.
type Handler struct {
	aggregator *Aggregator
	store      *Store
	logger     *slog.Logger
}

func NewHandler(aggregator *Aggregator, store *Store) *Handler {
	return &Handler{
		aggregator: aggregator,
		store:      store,
		logger:     slog.Default().With("component", "analytics-handler"),
	}
}

// Stats handles GET /api/v1/analytics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.aggregator.Stats())
}

// History handles GET /api/v1/analytics/history?limit=<n>. It returns the
// most recent persisted snapshots, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "snapshot persistence is disabled")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			h.writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	snapshots, err := h.store.ListSnapshots(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing snapshots failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load snapshot history")
		return
	}
	if snapshots == nil {
		snapshots = []AggregatedStats{}
	}
	h.writeJSON(w, http.StatusOK, snapshots)
}

// Latest handles GET /api/v1/analytics/latest, returning the most recent
// persisted snapshot.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "snapshot persistence is disabled")
		return
	}

	snapshot, err := h.store.LatestSnapshot(r.Context())
	if err != nil {
		h.logger.Error("loading latest snapshot failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load latest snapshot")
		return
	}
	if snapshot == nil {
		h.writeError(w, http.StatusNotFound, "no snapshots persisted yet")
		return
	}
	h.writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write analytics response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
