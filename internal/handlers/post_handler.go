// file: internal/handlers/post_handler.go
package handlers

import (
	"context"
	"net/http"

	"personahub/internal/models"
	"personahub/internal/response"
	"personahub/internal/services"
)

// PostHandler serves post CRUD, listings, search and engagement
type PostHandler struct {
	*Base
	posts      services.PostService
	engagement services.EngagementService
}

// NewPostHandler creates a new post handler
func NewPostHandler(base *Base, posts services.PostService, engagement services.EngagementService) *PostHandler {
	return &PostHandler{Base: base, posts: posts, engagement: engagement}
}

// Create handles POST /api/v1/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	var req services.CreatePostRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	req.ProfileID = profileID

	post, err := h.posts.CreatePost(r.Context(), &req)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteCreated(w, r, post)
}

// Get handles GET /api/v1/posts/{postID}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	post, err := h.posts.GetPost(r.Context(), postID, viewerProfileID(r))
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, post)
}

// Update handles PATCH /api/v1/posts/{postID}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	postID, err := pathID(r, "postID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	var req services.UpdatePostRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	req.PostID = postID
	req.ProfileID = profileID

	post, err := h.posts.UpdatePost(r.Context(), &req)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, post)
}

// Delete handles DELETE /api/v1/posts/{postID}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	postID, err := pathID(r, "postID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	if err := h.posts.DeletePost(r.Context(), postID, profileID); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteNoContent(w, r)
}

// List handles GET /api/v1/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.posts.ListPosts(r.Context(), &services.ListContentRequest{
		Pagination: paginationFromQuery(r),
		CategoryID: optionalQueryID(r, "category_id"),
	})
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	response.WritePaginated(h.builder, w, r, result)
}

// ListByProfile handles GET /api/v1/profiles/{profileID}/posts
func (h *PostHandler) ListByProfile(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	result, err := h.posts.ListPostsByProfile(r.Context(), profileID, paginationFromQuery(r))
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	response.WritePaginated(h.builder, w, r, result)
}

// Search handles GET /api/v1/posts/search?q=term
func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.posts.SearchPosts(r.Context(), &services.SearchRequest{
		Term:       r.URL.Query().Get("q"),
		Pagination: paginationFromQuery(r),
	})
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	response.WritePaginated(h.builder, w, r, result)
}

// ===============================
// ENGAGEMENT ROUTES
// ===============================

// Like handles PUT /api/v1/posts/{postID}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.Like)
}

// Unlike handles DELETE /api/v1/posts/{postID}/like
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.Unlike)
}

// Dislike handles PUT /api/v1/posts/{postID}/dislike
func (h *PostHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.Dislike)
}

// RemoveDislike handles DELETE /api/v1/posts/{postID}/dislike
func (h *PostHandler) RemoveDislike(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.RemoveDislike)
}

// Save handles PUT /api/v1/posts/{postID}/save
func (h *PostHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.SaveContent)
}

// Unsave handles DELETE /api/v1/posts/{postID}/save
func (h *PostHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.UnsaveContent)
}

// Share handles POST /api/v1/posts/{postID}/share
func (h *PostHandler) Share(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.ShareContent)
}

// GetEngagement handles GET /api/v1/posts/{postID}/engagement
func (h *PostHandler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	postID, err := pathID(r, "postID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	engagement, err := h.engagement.GetEngagement(r.Context(), &services.EngagementRequest{
		Kind:      models.ContentKindPost,
		ContentID: postID,
		ProfileID: profileID,
	})
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, engagement)
}

func (h *PostHandler) engage(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, req *services.EngagementRequest) error) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	postID, err := pathID(r, "postID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	if err := op(r.Context(), &services.EngagementRequest{
		Kind:      models.ContentKindPost,
		ContentID: postID,
		ProfileID: profileID,
	}); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteNoContent(w, r)
}
