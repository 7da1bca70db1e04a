package httpapi

import (
	"net/http"

	"github.com/opsdeck/opsdeck/internal/server/services"
)

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	actor, _ := CurrentUser(r.Context())
	skip, limit := pagination(r)

	list, count, err := s.items.List(r.Context(), actor, skip, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := itemListOut{Data: make([]itemOut, 0, len(list)), Count: count}
	for _, i := range list {
		out.Data = append(out.Data, toItemOut(i))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := CurrentUser(r.Context())

	var req itemCreateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeFieldErrors(w, map[string]string{"title": "title is required"})
		return
	}

	item, err := s.items.Create(r.Context(), actor, req.Title, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemOut(item))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := CurrentUser(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req itemUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Title != nil && *req.Title == "" {
		writeFieldErrors(w, map[string]string{"title": "title is required"})
		return
	}

	item, err := s.items.Update(r.Context(), actor, id, services.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemOut(item))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := CurrentUser(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.items.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageOut{Message: "item deleted successfully"})
}
