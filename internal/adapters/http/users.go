package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourforge/tourforge/pkg/domain"
)

type updateUserRequest struct {
	Email       *string `json:"email"`
	FullName    *string `json:"full_name"`
	Role        *string `json:"role"`
	CompanyRole *string `json:"company_role"`
}

func validRole(role string) bool {
	return role == domain.RoleUser || role == domain.RoleAdmin
}

// requireAdmin gates the administration endpoints on the caller's role.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if currentUserFrom(r).Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "Admin access required")
		return false
	}
	return true
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	users, err := s.users.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// updateUser lets users edit their own profile; role changes and edits to
// other accounts are admin only.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := currentUserFrom(r)
	username := chi.URLParam(r, "username")
	if caller.Role != domain.RoleAdmin && caller.Username != username {
		writeError(w, http.StatusForbidden, "Permission denied")
		return
	}
	if req.Role != nil {
		if caller.Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "Only admins can change user roles")
			return
		}
		if !validRole(*req.Role) {
			writeError(w, http.StatusUnprocessableEntity, "Unknown user role: "+*req.Role)
			return
		}
	}

	user, err := s.users.Get(r.Context(), username)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.CompanyRole != nil {
		user.CompanyRole = *req.CompanyRole
	}

	updated, err := s.users.Update(r.Context(), *user)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteUser is admin only; self-deletion is rejected so an installation
// cannot lock out its last admin.
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	username := chi.URLParam(r, "username")
	if currentUserFrom(r).Username == username {
		writeError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}
	if err := s.users.Delete(r.Context(), username); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
