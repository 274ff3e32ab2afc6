package web

import (
	"encoding/json"
	"net/http"

	"github.com/deskpulse/deskpulse/internal/activity"
	"github.com/deskpulse/deskpulse/internal/fetch"
)

type server struct {
	latest *fetch.Latest
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, ok := s.latest.Get(); ok {
		w.Write([]byte(`{"status":"ok"}`))
		return
	}
	w.Write([]byte(`{"status":"waiting"}`))
}

func (s *server) report(w http.ResponseWriter, _ *http.Request) {
	rep, ok := s.latest.Get()
	if !ok {
		noReport(w)
		return
	}
	writeJSON(w, rep)
}

func (s *server) apps(w http.ResponseWriter, _ *http.Request) {
	rep, ok := s.latest.Get()
	if !ok {
		noReport(w)
		return
	}
	writeJSON(w, usagePage{Seq: rep.Seq, Usage: rep.Apps})
}

func (s *server) domains(w http.ResponseWriter, _ *http.Request) {
	rep, ok := s.latest.Get()
	if !ok {
		noReport(w)
		return
	}
	writeJSON(w, usagePage{Seq: rep.Seq, Usage: rep.Domains})
}

type usagePage struct {
	Seq   uint64           `json:"seq"`
	Usage []activity.Usage `json:"usage"`
}

func noReport(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte(`{"error":"no report yet"}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
