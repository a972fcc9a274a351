package api

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"lawdesk/internal/models"
)

type instagramPostRequest struct {
	Slug      *string `json:"slug"`
	Permalink *string `json:"permalink"`
	ImageURL  *string `json:"image_url"`
	Caption   *string `json:"caption"`
	PostedAt  *string `json:"posted_at"` // YYYY-MM-DD
	Published *bool   `json:"published"`
}

func (req *instagramPostRequest) apply(p *models.InstagramPost) string {
	applyString(&p.Slug, req.Slug)
	applyString(&p.Permalink, req.Permalink)
	applyString(&p.ImageURL, req.ImageURL)
	applyString(&p.Caption, req.Caption)
	applyBool(&p.Published, req.Published)
	if req.PostedAt != nil {
		t, err := time.Parse("2006-01-02", *req.PostedAt)
		if err != nil {
			return "invalid posted_at; expected YYYY-MM-DD"
		}
		p.PostedAt = t
	}
	return ""
}

// handlePublicInstagramList lists published mirrored posts, newest first.
// GET /api/instagram?limit=&offset=
func (s *Server) handlePublicInstagramList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	posts, err := s.db.ListInstagramPosts(r.Context(), contentFilterFromQuery(r, true))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if posts == nil {
		posts = []models.InstagramPost{}
	}
	respondJSON(w, http.StatusOK, posts)
}

// handleAdminInstagramList lists all mirrored posts.
// GET /api/admin/instagram
func (s *Server) handleAdminInstagramList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	posts, err := s.db.ListInstagramPosts(r.Context(), contentFilterFromQuery(r, false))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if posts == nil {
		posts = []models.InstagramPost{}
	}
	respondJSON(w, http.StatusOK, posts)
}

// handleCreateInstagramPost mirrors a post.
// POST /api/admin/instagram
func (s *Server) handleCreateInstagramPost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req instagramPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var post models.InstagramPost
	if msg := req.apply(&post); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if post.Slug == "" || post.Permalink == "" {
		respondError(w, http.StatusBadRequest, "slug and permalink are required")
		return
	}

	if err := s.db.CreateInstagramPost(r.Context(), &post); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// handleUpdateInstagramPost partially updates a mirrored post.
// PATCH /api/admin/instagram/:id
func (s *Server) handleUpdateInstagramPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req instagramPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := s.db.GetInstagramPost(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if msg := req.apply(post); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if post.Slug == "" || post.Permalink == "" {
		respondError(w, http.StatusBadRequest, "slug and permalink are required")
		return
	}

	if err := s.db.UpdateInstagramPost(r.Context(), post); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// handleDeleteInstagramPost removes a mirrored post.
// DELETE /api/admin/instagram/:id
func (s *Server) handleDeleteInstagramPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.db.DeleteInstagramPost(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}
