// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/tallyboard/cliparse"
	"github.com/danielhkuo/tallyboard/middleware"
	"github.com/danielhkuo/tallyboard/tally"
)

type ResultsHandler struct {
	store *tally.Store
	cfg   cliparse.Config
}

func NewResultsHandler(store *tally.Store, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: store, cfg: cfg}
}

// GetChart handles GET /chart
// One series per candidate, in registration order
func (h *ResultsHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	charts, err := h.store.Chart(r.Context())
	if err != nil {
		storeErrorResponse(w, r, err, "get_chart")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, charts)
}
