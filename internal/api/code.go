package api

import (
	"net/http"
	"strconv"

	"github.com/felixgeelhaar/codementor/internal/mentor"
)

func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	var body mentor.AnalyzeRequest
	if err := decode(w, req, &body); err != nil {
		r.fail(w, req, err)
		return
	}

	resp, err := r.svc.Analyze(req.Context(), userFrom(req.Context()), body)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (r *Router) handleListSessions(w http.ResponseWriter, req *http.Request) {
	skip, err := queryInt(req, "skip", 0)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	limit, err := queryInt(req, "limit", 10)
	if err != nil {
		r.fail(w, req, err)
		return
	}

	sessions, err := r.svc.Sessions(req.Context(), userFrom(req.Context()), skip, limit)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"skip":     skip,
		"limit":    limit,
	})
}

func (r *Router) handleGetSession(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(req.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		r.writeError(w, req, http.StatusBadRequest, ErrBadRequestWith("session id must be a positive integer"))
		return
	}

	session, err := r.svc.Session(req.Context(), userFrom(req.Context()), id)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusOK, session)
}

func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) {
	stats, err := r.svc.Stats(req.Context(), userFrom(req.Context()))
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

func queryInt(req *http.Request, name string, def int) (int, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, ErrBadRequestWith(name + " must be a non-negative integer")
	}
	return n, nil
}
