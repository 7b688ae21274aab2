package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/coursegrid/gradematrix/internal/api/http"
	auth "github.com/coursegrid/gradematrix/internal/auth/middleware"
	"github.com/coursegrid/gradematrix/internal/config"
	"github.com/coursegrid/gradematrix/internal/course"
	"github.com/coursegrid/gradematrix/internal/db"
	"github.com/coursegrid/gradematrix/internal/grade"
	"github.com/coursegrid/gradematrix/internal/matrix"
	"github.com/coursegrid/gradematrix/internal/rbac"
	"github.com/coursegrid/gradematrix/internal/rubric"
	"github.com/coursegrid/gradematrix/internal/tracking"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Stores and engine ---
	courses := course.NewSQLStore(dbh)
	rubrics := rubric.NewSQLStore(dbh)
	grades := grade.NewSQLStore(dbh)
	events := tracking.NewEventRepo(dbh)
	states := &tracking.Service{Log: events}

	syn := grade.NewSynchronizer(grades, rubrics, courses, nil)
	agg := &matrix.Aggregator{
		Roster:     courses,
		Activities: courses,
		Rubrics:    rubrics,
		Records:    grades,
		Tracking:   states,
	}

	// --- Auth (local JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))
	}

	// Protected API (JWT → subject/role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("matrix:view")).
			Get("/courses/{courseID}/matrix", api.BuildMatrixHandler(agg))

		pr.With(rbac.Require("grade:submit")).
			Post("/activities/{activityID}/students/{studentID}/grade", api.SubmitGradeHandler(syn))

		// Students may read their own tracking state; staff need tracking:view.
		pr.With(rbac.RequireOwnerOr("tracking:view", ownsTrackedStudent)).
			Get("/students/{studentID}/activities/{activityID}/tracking", api.GetTrackingStateHandler(states))

		pr.With(rbac.Require("tracking:ingest")).
			Post("/students/{studentID}/activities/{activityID}/events", api.AppendEventHandler(events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

func ownsTrackedStudent(r *http.Request) bool {
	sub := auth.SubjectFromContext(r.Context())
	return sub != "" && sub == chi.URLParam(r, "studentID")
}
