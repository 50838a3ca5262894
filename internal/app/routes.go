package app

import (
	"net/http"

	"persona-review/internal/observability"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods("GET")

	observability.InitMetrics()
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(s.limitBody)
	if s.cfg.APISecret != "" {
		v1.Use(s.verifySignature)
	}

	v1.HandleFunc("/languages", s.languages).Methods("GET")
	v1.HandleFunc("/plan", s.plan).Methods("POST")
	v1.HandleFunc("/reviews", s.createReview).Methods("POST")
	v1.HandleFunc("/jobs", s.createJob).Methods("POST")
	v1.HandleFunc("/jobs/{id}", s.jobStatus).Methods("GET")

	return r
}
