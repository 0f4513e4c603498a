// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ElmaP103/buenro/internal/app"
	"github.com/ElmaP103/buenro/internal/domain"
)

type Handlers struct {
	Q   *app.QueryService
	Ing *app.IngestionService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/properties", h.listProperties)
	s.mux.Post("/v1/properties/ingest", h.ingest)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// parseFilter reads the optional query dimensions. Unparsable values are a
// caller error, not a silent match-all.
func parseFilter(r *http.Request) (domain.PropertyFilter, string) {
	q := r.URL.Query()
	var f domain.PropertyFilter

	if v := q.Get("city"); v != "" {
		f.City = &v
	}
	if v := q.Get("country"); v != "" {
		f.Country = &v
	}
	if v := q.Get("isAvailable"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, "isAvailable must be true or false"
		}
		f.IsAvailable = &b
	}
	if v := q.Get("minPrice"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return f, "minPrice must be a non-negative number"
		}
		f.MinPrice = &n
	}
	if v := q.Get("maxPrice"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return f, "maxPrice must be a non-negative number"
		}
		f.MaxPrice = &n
	}
	if v := q.Get("priceSegment"); v != "" {
		switch v {
		case domain.SegmentHigh, domain.SegmentMedium, domain.SegmentLow:
			f.PriceSegment = &v
		default:
			return f, "priceSegment must be high, medium or low"
		}
	}
	if v := q.Get("source"); v != "" {
		f.Source = &v
	}
	return f, ""
}

func parsePositiveInt(s string, def int) (int, bool) {
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	f, detail := parseFilter(r)
	if detail != "" {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", detail)
		return
	}
	page, ok := parsePositiveInt(r.URL.Query().Get("page"), app.DefaultPage)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid page", "page must be a positive integer")
		return
	}
	limit, ok := parsePositiveInt(r.URL.Query().Get("limit"), app.DefaultLimit)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be a positive integer")
		return
	}

	out, err := h.Q.List(r.Context(), f, page, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Query failed", domain.ErrQueryFailed.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) ingest(w http.ResponseWriter, r *http.Request) {
	if err := h.Ing.Ingest(r.Context()); err != nil {
		// generic failure only; internal detail stays in the logs
		writeProblem(w, http.StatusInternalServerError, "Ingestion failed", domain.ErrIngestFailed.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "data ingestion completed successfully"})
}
