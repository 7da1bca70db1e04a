package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/opsdeck/opsdeck/internal/server/services"
)

// pagination reads skip/limit query parameters with the usual defaults.
func pagination(r *http.Request) (skip, limit int64) {
	skip, limit = 0, 100
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	return skip, limit
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	writeJSON(w, http.StatusOK, toUserOut(user))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	var req userUpdateMeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email != nil && !validEmail(*req.Email) {
		writeFieldErrors(w, map[string]string{"email": "invalid email address"})
		return
	}

	updated, err := s.users.UpdateMe(r.Context(), user.ID, req.Email, req.FullName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserOut(updated))
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	var req updatePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	fields := map[string]string{}
	validatePassword("new_password", req.NewPassword, fields)
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	if err := s.users.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageOut{Message: "password updated successfully"})
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	if err := s.users.DeleteMe(r.Context(), user); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageOut{Message: "user deleted successfully"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	list, count, err := s.users.List(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := userListOut{Data: make([]userOut, 0, len(list)), Count: count}
	for _, u := range list {
		out.Data = append(out.Data, toUserOut(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if !decode(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if !validEmail(req.Email) {
		fields["email"] = "invalid email address"
	}
	validatePassword("password", req.Password, fields)
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	in := services.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		IsActive:    true,
		IsSuperuser: req.IsSuperuser,
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}

	user, err := s.users.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserOut(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req userUpdateRequest
	if !decode(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if req.Email != nil && !validEmail(*req.Email) {
		fields["email"] = "invalid email address"
	}
	if req.Password != nil {
		validatePassword("password", *req.Password, fields)
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	user, err := s.users.Update(r.Context(), id, services.UpdateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserOut(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := CurrentUser(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.users.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageOut{Message: "user deleted successfully"})
}
