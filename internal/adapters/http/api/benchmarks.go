package api

import (
	"net/http"

	"github.com/okian/benchmatrix/internal/domain/views"
)

// BenchmarksHandler serves the benchmark picker and bar chart routes.
type BenchmarksHandler struct {
	deps BenchmarkReader
}

// NewBenchmarksHandler creates a new benchmarks handler.
func NewBenchmarksHandler(deps BenchmarkReader) *BenchmarksHandler {
	return &BenchmarksHandler{deps: deps}
}

// HandleList handles GET /benchmarks requests.
func (h *BenchmarksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts, err := h.deps.Benchmarks(r.Context())
	if err != nil {
		writeDomainError(w, Wrap("api.list_benchmarks", err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleBar handles GET /benchmarks/{id}/bar?sort=S&limit=N requests.
func (h *BenchmarksHandler) HandleBar(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_bar"
	order, err := views.ParseSortOrder(r.URL.Query().Get("sort"))
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeDomainError(w, NewKind(op, err))
		return
	}
	chart, err := h.deps.Bar(r.Context(), r.PathValue("id"), order, limit)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, chart)
}
