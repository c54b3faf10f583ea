package rest

import (
	"net/http"

	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/gorilla/mux"
)

func postFilter(r *http.Request) models.PostFilter {
	q := r.URL.Query()
	return models.PostFilter{Community: q.Get("community"), Title: q.Get("title")}
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.svc.Posts.CreatePost(r.Context(), caller.UserID, req.Title, req.Community, req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPost(p))
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	ps, err := s.svc.Posts.ListPosts(r.Context(), postFilter(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPosts(ps))
}

func (s *Server) handleMyPosts(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	ps, err := s.svc.Posts.ListPostsByAuthor(r.Context(), caller.UserID, postFilter(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPosts(ps))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Posts.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPost(p))
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	patch := models.PostPatch{Title: req.Title, Community: req.Community, Content: req.Content}
	p, err := s.svc.Posts.UpdatePost(r.Context(), caller, mux.Vars(r)["id"], patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPost(p))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	id := mux.Vars(r)["id"]
	if err := s.svc.Posts.DeletePost(r.Context(), caller, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "post deleted", "post_id", id, "user_id", caller.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRequestUpload(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	up, err := s.svc.Media.RequestUpload(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{Key: up.Key, UploadURL: up.URL})
}

func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.svc.Media.DownloadURL(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadResponse{DownloadURL: url})
}
