package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 40
)

// decode reads a JSON body, capping it at 1MB.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

func validatePassword(field, password string, fields map[string]string) {
	if len(password) < minPasswordLen {
		fields[field] = "must be at least 8 characters"
	} else if len(password) > maxPasswordLen {
		fields[field] = "must be at most 40 characters"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageOut{Message: "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
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

	user, err := s.users.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserOut(user))
}

func (s *Server) handleRecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req recoverRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.users.RecoverPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageOut{Message: "password recovery email sent"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decode(w, r, &req) {
		return
	}

	fields := map[string]string{}
	validatePassword("new_password", req.NewPassword, fields)
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	if err := s.users.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageOut{Message: "password updated successfully"})
}
