package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/coursegrid/gradematrix/internal/auth/middleware"
	"github.com/coursegrid/gradematrix/internal/grade"
	"github.com/coursegrid/gradematrix/internal/rubric"
)

type submitGradeReq struct {
	Selections []rubric.Selection `json:"selections"`
	Feedback   string             `json:"feedback,omitempty"`
}

type submitGradeResp struct {
	FinalValue float64 `json:"final_value"`
}

// POST /activities/{activityID}/students/{studentID}/grade
func SubmitGradeHandler(syn *grade.Synchronizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityID := strings.TrimSpace(chi.URLParam(r, "activityID"))
		studentID := strings.TrimSpace(chi.URLParam(r, "studentID"))
		if activityID == "" || studentID == "" {
			http.Error(w, "activityID and studentID required", http.StatusBadRequest)
			return
		}
		var req submitGradeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		grader := authmw.SubjectFromContext(r.Context())

		final, err := syn.SubmitGrade(r.Context(), activityID, studentID, grader, req.Selections, req.Feedback)
		if err != nil {
			writeGradeError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(submitGradeResp{FinalValue: final})
	}
}

// writeGradeError maps the grading error taxonomy onto HTTP statuses. A
// persistence failure reports the steps known to have committed so the
// caller can retry the remainder.
func writeGradeError(w http.ResponseWriter, err error) {
	var verr *grade.ValidationError
	var nferr *grade.NotFoundError
	var perr *grade.PersistenceError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &nferr):
		http.Error(w, nferr.Error(), http.StatusNotFound)
	case errors.As(err, &perr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":           perr.Error(),
			"failed_step":     perr.Step,
			"completed_steps": perr.Completed,
		})
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
