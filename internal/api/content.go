package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"lawdesk/internal/database"
)

func (s *Server) registerContentRoutes(router *httprouter.Router) {
	router.GET("/api/admin/blog", s.requireSession(s.handleAdminBlogList))
	router.POST("/api/admin/blog", s.requireSession(s.handleCreateBlogPost))
	router.GET("/api/admin/blog/:id", s.requireSession(s.handleAdminBlogGet))
	router.PATCH("/api/admin/blog/:id", s.requireSession(s.handleUpdateBlogPost))
	router.DELETE("/api/admin/blog/:id", s.requireSession(s.handleDeleteBlogPost))

	router.GET("/api/admin/cases", s.requireSession(s.handleAdminCaseList))
	router.POST("/api/admin/cases", s.requireSession(s.handleCreateCase))
	router.GET("/api/admin/cases/:id", s.requireSession(s.handleAdminCaseGet))
	router.PATCH("/api/admin/cases/:id", s.requireSession(s.handleUpdateCase))
	router.DELETE("/api/admin/cases/:id", s.requireSession(s.handleDeleteCase))
	router.POST("/api/admin/cases/:id/photos", s.requireSession(s.handleAddCasePhoto))

	router.GET("/api/admin/faqs", s.requireSession(s.handleAdminFAQList))
	router.POST("/api/admin/faqs", s.requireSession(s.handleCreateFAQ))
	router.PATCH("/api/admin/faqs/:id", s.requireSession(s.handleUpdateFAQ))
	router.DELETE("/api/admin/faqs/:id", s.requireSession(s.handleDeleteFAQ))

	router.GET("/api/admin/testimonials", s.requireSession(s.handleAdminTestimonialList))
	router.POST("/api/admin/testimonials", s.requireSession(s.handleCreateTestimonial))
	router.GET("/api/admin/testimonials/:id", s.requireSession(s.handleAdminTestimonialGet))
	router.PATCH("/api/admin/testimonials/:id", s.requireSession(s.handleUpdateTestimonial))
	router.DELETE("/api/admin/testimonials/:id", s.requireSession(s.handleDeleteTestimonial))
	router.POST("/api/admin/testimonials/:id/photos", s.requireSession(s.handleAddTestimonialPhoto))

	router.GET("/api/admin/instagram", s.requireSession(s.handleAdminInstagramList))
	router.POST("/api/admin/instagram", s.requireSession(s.handleCreateInstagramPost))
	router.PATCH("/api/admin/instagram/:id", s.requireSession(s.handleUpdateInstagramPost))
	router.DELETE("/api/admin/instagram/:id", s.requireSession(s.handleDeleteInstagramPost))
}

// contentFilterFromQuery reads the shared content listing parameters.
func contentFilterFromQuery(r *http.Request, publishedOnly bool) database.ContentFilter {
	return database.ContentFilter{
		Category:      r.URL.Query().Get("category"),
		Search:        r.URL.Query().Get("search"),
		PublishedOnly: publishedOnly,
		Limit:         queryInt(r, "limit", 20),
		Offset:        queryInt(r, "offset", 0),
	}
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func applyInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
