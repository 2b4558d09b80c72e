package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/idjaw/netman/core"
)

// openSession opens a switch session keyed by the {id} path segment —
// clients mint their own session id, which the response echoes back
// as session_id.
func (rt *Router) openSession(w http.ResponseWriter, r *http.Request) {
	var desc core.SwitchDescriptor
	if !decodeJSONBody(w, r, &desc) {
		return
	}
	if err := rt.validate.Struct(desc); err != nil {
		badRequest(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	gotID, err := rt.manager.Open(r.Context(), id, desc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": gotID})
}

type actionRequest struct {
	Action string `json:"action" validate:"required,oneof=start_transaction commit rollback end_transaction"`
}

// sessionAction drives the session's transaction state machine.
func (rt *Router) sessionAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req actionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}

	var err error
	switch req.Action {
	case "start_transaction":
		err = rt.manager.StartTransaction(r.Context(), id)
	case "commit":
		err = rt.manager.Commit(r.Context(), id)
	case "rollback":
		err = rt.manager.Rollback(r.Context(), id)
	case "end_transaction":
		err = rt.manager.EndTransaction(r.Context(), id)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (rt *Router) closeSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := rt.manager.Close(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (rt *Router) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.manager.Summaries())
}
