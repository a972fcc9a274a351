package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"lawdesk/internal/models"
)

type blogPostRequest struct {
	Slug      *string `json:"slug"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Excerpt   *string `json:"excerpt"`
	Category  *string `json:"category"`
	Thumbnail *string `json:"thumbnail"`
	Published *bool   `json:"published"`
}

func (req *blogPostRequest) apply(p *models.BlogPost) {
	applyString(&p.Slug, req.Slug)
	applyString(&p.Title, req.Title)
	applyString(&p.Content, req.Content)
	applyString(&p.Excerpt, req.Excerpt)
	applyString(&p.Category, req.Category)
	applyString(&p.Thumbnail, req.Thumbnail)
	applyBool(&p.Published, req.Published)
}

// handlePublicBlogList lists published posts.
// GET /api/blog?category=&search=&limit=&offset=
func (s *Server) handlePublicBlogList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	posts, err := s.db.ListBlogPosts(r.Context(), contentFilterFromQuery(r, true))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	respondJSON(w, http.StatusOK, posts)
}

// handlePublicBlogGet returns one published post by slug.
// GET /api/blog/:slug
func (s *Server) handlePublicBlogGet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	post, err := s.db.GetBlogPostBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if !post.Published {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// handleAdminBlogList lists all posts including drafts.
// GET /api/admin/blog
func (s *Server) handleAdminBlogList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	posts, err := s.db.ListBlogPosts(r.Context(), contentFilterFromQuery(r, false))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	respondJSON(w, http.StatusOK, posts)
}

// handleAdminBlogGet returns one post by id.
// GET /api/admin/blog/:id
func (s *Server) handleAdminBlogGet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	post, err := s.db.GetBlogPost(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// handleCreateBlogPost creates a post.
// POST /api/admin/blog
func (s *Server) handleCreateBlogPost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req blogPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var post models.BlogPost
	req.apply(&post)
	if post.Slug == "" || post.Title == "" {
		respondError(w, http.StatusBadRequest, "slug and title are required")
		return
	}

	if err := s.db.CreateBlogPost(r.Context(), &post); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// handleUpdateBlogPost partially updates a post.
// PATCH /api/admin/blog/:id
func (s *Server) handleUpdateBlogPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req blogPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := s.db.GetBlogPost(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	req.apply(post)
	if post.Slug == "" || post.Title == "" {
		respondError(w, http.StatusBadRequest, "slug and title are required")
		return
	}

	if err := s.db.UpdateBlogPost(r.Context(), post); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// handleDeleteBlogPost deletes a post.
// DELETE /api/admin/blog/:id
func (s *Server) handleDeleteBlogPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.db.DeleteBlogPost(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}
