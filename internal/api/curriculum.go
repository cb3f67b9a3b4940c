package api

import (
	"net/http"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

func (r *Router) handleListTopics(w http.ResponseWriter, req *http.Request) {
	catalog := r.svc.Catalog()

	raw := req.URL.Query().Get("level")
	if raw == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"topics": catalog.Topics()})
		return
	}

	level, err := domain.ParseSkillLevel(raw)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"level":  level,
		"topics": catalog.SelectForLevel(level),
	})
}

func (r *Router) handleGetTopic(w http.ResponseWriter, req *http.Request) {
	topic, err := r.svc.Catalog().Topic(req.PathValue("id"))
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusOK, topic)
}

func (r *Router) handleGeneratePath(w http.ResponseWriter, req *http.Request) {
	path, err := r.svc.GeneratePath(req.Context(), userFrom(req.Context()))
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusCreated, path)
}

func (r *Router) handleCurrentPath(w http.ResponseWriter, req *http.Request) {
	path, err := r.svc.CurrentPath(req.Context(), userFrom(req.Context()))
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusOK, path)
}

func (r *Router) handleNextTopic(w http.ResponseWriter, req *http.Request) {
	step, err := r.svc.NextStep(req.Context(), userFrom(req.Context()))
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusOK, step)
}

type progressRequest struct {
	CompletedTopicIDs []string `json:"completed_topic_ids"`
}

func (r *Router) handleRecordProgress(w http.ResponseWriter, req *http.Request) {
	var body progressRequest
	if err := decode(w, req, &body); err != nil {
		r.fail(w, req, err)
		return
	}

	report, err := r.svc.RecordProgress(req.Context(), userFrom(req.Context()), body.CompletedTopicIDs)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}
