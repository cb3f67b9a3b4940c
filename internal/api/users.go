package api

import (
	"net/http"

	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/mentor"
)

func (r *Router) handleCreateUser(w http.ResponseWriter, req *http.Request) {
	var body mentor.CreateUserRequest
	if err := decode(w, req, &body); err != nil {
		r.fail(w, req, err)
		return
	}

	user, err := r.svc.CreateUser(req.Context(), body)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}

func (r *Router) handleGetMe(w http.ResponseWriter, req *http.Request) {
	WriteJSON(w, http.StatusOK, userFrom(req.Context()))
}

func (r *Router) handleUpdateMe(w http.ResponseWriter, req *http.Request) {
	var update domain.UserUpdate
	if err := decode(w, req, &update); err != nil {
		r.fail(w, req, err)
		return
	}

	user, err := r.svc.UpdateUser(req.Context(), userFrom(req.Context()).ID, update)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}
