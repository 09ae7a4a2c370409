package api

import (
	"net/http"
)

// ModelsHandler serves the model list, model detail and polar chart routes.
type ModelsHandler struct {
	deps     ModelReader
	maxLimit int
}

// NewModelsHandler creates a new models handler.
func NewModelsHandler(deps ModelReader, maxLimit int) *ModelsHandler {
	return &ModelsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleList handles GET /models?limit=N requests.
func (h *ModelsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_models"
	n, err := intParam(r, "limit", h.maxLimit)
	if err != nil {
		writeDomainError(w, NewKind(op, err))
		return
	}
	if n > h.maxLimit {
		writeDomainError(w, NewKind(op, ErrLimitExceeded))
		return
	}
	if n == 0 {
		n = h.maxLimit
	}
	models, err := h.deps.Models(r.Context(), n)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, models)
}

// HandleGet handles GET /models/{id} requests.
func (h *ModelsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.deps.Model(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, Wrap("api.get_model", err))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandlePolar handles GET /models/{id}/polar requests.
func (h *ModelsHandler) HandlePolar(w http.ResponseWriter, r *http.Request) {
	chart, err := h.deps.Polar(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, Wrap("api.get_polar", err))
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

// HandleTop handles GET /models/top?n=N requests, the polar model picker.
func (h *ModelsHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.top_models"
	n, err := intParam(r, "n", 0)
	if err != nil {
		writeDomainError(w, NewKind(op, err))
		return
	}
	opts, err := h.deps.TopModels(r.Context(), n)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
