package web

import (
	"github.com/gorilla/mux"

	"github.com/deskpulse/deskpulse/internal/fetch"
)

func NewRouter(latest *fetch.Latest) *mux.Router {
	s := &server{latest: latest}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods("GET")
	r.HandleFunc("/api/report", s.report).Methods("GET")
	r.HandleFunc("/api/apps", s.apps).Methods("GET")
	r.HandleFunc("/api/domains", s.domains).Methods("GET")

	return r
}
