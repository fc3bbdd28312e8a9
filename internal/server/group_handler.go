package server

import (
	"net/http"

	"github.com/khataplus/khataplus/internal/middleware"
	"github.com/khataplus/khataplus/internal/models"
)

type groupRequest struct {
	Name string `json:"name"`
}

type joinRequest struct {
	JoinCode string `json:"join_code"`
}

type groupResponse struct {
	Group   *models.InventorySyncGroup `json:"group"`
	Members []models.GroupMember       `json:"members,omitempty"`
}

func (s *Server) handleCurrentGroup(w http.ResponseWriter, r *http.Request) {
	group, members, err := s.groups.Current(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, groupResponse{Group: group, Members: members})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	group, err := s.groups.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, groupResponse{Group: group})
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	group, err := s.groups.Join(r.Context(), middleware.GetUserID(r.Context()), req.JoinCode)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, groupResponse{Group: group})
}

func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.Leave(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenameGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	group, err := s.groups.Rename(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, groupResponse{Group: group})
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.Delete(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
