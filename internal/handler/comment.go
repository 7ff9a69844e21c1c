package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogdesk/blogdesk-go/internal/service"
	"github.com/blogdesk/blogdesk-go/internal/view"
)

// CommentHandler serves comment mutations. All of them redirect back to the post.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{service: svc, logger: logger}
}

// HandleAdd handles POST /blog/{id}/comments requests.
func (h *CommentHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	if _, err := h.service.Add(r.Context(), postID, r.PostFormValue("comment")); err != nil {
		redirectWithNotice(w, r, commentsAnchor(postID), view.Failure(service.Message(err, "Failed to add comment")))
		return
	}
	redirectWithNotice(w, r, commentsAnchor(postID), view.Success("Comment added successfully"))
}

// HandleUpdate handles POST /blog/{id}/comments/{commentID}/edit requests.
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	postID, commentID := chi.URLParam(r, "id"), chi.URLParam(r, "commentID")
	text := r.PostFormValue("comment")

	comment, err := h.service.Lookup(r.Context(), postID, commentID)
	if err == nil {
		_, err = h.service.Update(r.Context(), comment, text)
	}
	if err != nil {
		redirectWithNotice(w, r, commentsAnchor(postID), view.Failure(service.Message(err, "Failed to update comment")))
		return
	}
	redirectWithNotice(w, r, commentsAnchor(postID), view.Success("Comment updated successfully"))
}

// HandleDelete handles POST /blog/{id}/comments/{commentID}/delete requests.
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, commentID := chi.URLParam(r, "id"), chi.URLParam(r, "commentID")

	comment, err := h.service.Lookup(r.Context(), postID, commentID)
	if err == nil {
		err = h.service.Delete(r.Context(), comment)
	}
	if err != nil {
		redirectWithNotice(w, r, commentsAnchor(postID), view.Failure(service.Message(err, "Failed to delete comment")))
		return
	}
	redirectWithNotice(w, r, commentsAnchor(postID), view.Success("Comment deleted successfully"))
}

func commentsAnchor(postID string) string {
	return "/blog/" + postID + "#comments"
}
