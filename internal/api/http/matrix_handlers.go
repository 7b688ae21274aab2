package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/coursegrid/gradematrix/internal/matrix"
)

// GET /courses/{courseID}/matrix
func BuildMatrixHandler(agg *matrix.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := strings.TrimSpace(chi.URLParam(r, "courseID"))
		if courseID == "" {
			http.Error(w, "courseID required", http.StatusBadRequest)
			return
		}
		m, err := agg.BuildMatrix(r.Context(), courseID)
		if err != nil {
			http.Error(w, "build matrix: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m)
	}
}
