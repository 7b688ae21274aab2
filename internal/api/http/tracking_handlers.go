package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coursegrid/gradematrix/internal/tracking"
)

// GET /students/{studentID}/activities/{activityID}/tracking
func GetTrackingStateHandler(svc *tracking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := strings.TrimSpace(chi.URLParam(r, "studentID"))
		activityID := strings.TrimSpace(chi.URLParam(r, "activityID"))
		if studentID == "" || activityID == "" {
			http.Error(w, "studentID and activityID required", http.StatusBadRequest)
			return
		}
		st, err := svc.State(r.Context(), studentID, activityID)
		if err != nil {
			http.Error(w, "tracking state: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(st)
	}
}

type appendEventReq struct {
	Element string `json:"element"`
	Value   string `json:"value"`
	At      int64  `json:"at,omitempty"` // unix seconds; defaults to now
}

var knownElements = map[string]struct{}{
	tracking.ElemStatus:      {},
	tracking.ElemCompletion:  {},
	tracking.ElemTotalTime:   {},
	tracking.ElemSessionTime: {},
	tracking.ElemExit:        {},
	tracking.ElemEntry:       {},
	tracking.ElemScore:       {},
}

// POST /students/{studentID}/activities/{activityID}/events
func AppendEventHandler(log tracking.EventLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := strings.TrimSpace(chi.URLParam(r, "studentID"))
		activityID := strings.TrimSpace(chi.URLParam(r, "activityID"))
		var req appendEventReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if _, ok := knownElements[req.Element]; !ok {
			http.Error(w, "unknown element: "+req.Element, http.StatusBadRequest)
			return
		}
		if req.At == 0 {
			req.At = time.Now().Unix()
		}
		e := tracking.Event{
			StudentID:  studentID,
			ActivityID: activityID,
			Element:    req.Element,
			Value:      req.Value,
			At:         req.At,
		}
		if err := log.Append(r.Context(), e); err != nil {
			http.Error(w, "append event: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
