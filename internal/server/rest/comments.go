package rest

import (
	"net/http"

	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/gorilla/mux"
)

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.svc.Comments.CreateComment(r.Context(), caller.UserID, mux.Vars(r)["postId"], req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toComment(c))
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	cs, err := s.svc.Comments.ListComments(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toComments(cs))
}

func (s *Server) handleListCommentsByPost(w http.ResponseWriter, r *http.Request) {
	cs, err := s.svc.Comments.ListCommentsByPost(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toComments(cs))
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Comments.GetComment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toComment(c))
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	var req updateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.svc.Comments.UpdateComment(r.Context(), caller, mux.Vars(r)["id"], models.CommentPatch{Content: req.Content})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toComment(c))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	if err := s.svc.Comments.DeleteComment(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
