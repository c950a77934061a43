package rest

import (
	"net/http"

	"offplan-service/internal/core/domain"

	"github.com/go-chi/chi/v5"
)

// HandleListBlogPosts - GET /api/v1/blogs, новые первыми
func (h *Handlers) HandleListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.listBlogPostsUC.Execute(r.Context())
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	if posts == nil {
		posts = []domain.BlogPost{}
	}
	respondOK(w, http.StatusOK, "Blog posts fetched successfully", posts)
}

// HandleGetBlogPost - GET /api/v1/blogs/{slug}
func (h *Handlers) HandleGetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.getBlogPostUC.Execute(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err, "Blog post not found")
		return
	}
	respondOK(w, http.StatusOK, "Blog post fetched successfully", post)
}

// HandleCreateBlogPost - POST /api/v1/blogs
func (h *Handlers) HandleCreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req CreateBlogPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFail(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	post, err := h.createBlogPostUC.Execute(r.Context(), req.toDomain())
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	respondOK(w, http.StatusCreated, "Blog post created successfully", post)
}
