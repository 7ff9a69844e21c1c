package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blogdesk/blogdesk-go/internal/service"
	"github.com/blogdesk/blogdesk-go/internal/view"
)

// HomeData is the data of the post list page.
type HomeData struct {
	Cards      []view.PostCard
	Pagination view.Pagination
	Empty      bool
}

// PostData is the data of the post page.
type PostData struct {
	Post view.PostDetail
}

// PostForm is the data of the create and edit pages.
type PostForm struct {
	ID     string
	Title  string
	Body   string
	Action string
	Submit string
}

// PostHandler serves listing, reading, writing and deleting posts.
type PostHandler struct {
	service  *service.PostService
	views    *view.Builder
	renderer *Renderer
	logger   *slog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *service.PostService, views *view.Builder, renderer *Renderer, logger *slog.Logger) *PostHandler {
	return &PostHandler{service: svc, views: views, renderer: renderer, logger: logger}
}

// HandleList handles GET / requests.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.service.List(r.Context(), page)
	if err != nil {
		h.renderer.Render(w, r, statusFor(err), "home.html", "Latest Blogs",
			view.Failure(service.Message(err, "Failed to load blogs")), HomeData{Empty: true})
		return
	}

	current := result.Meta.Page
	if current < 1 {
		current = page
	}
	h.renderer.Render(w, r, http.StatusOK, "home.html", "Latest Blogs", view.Notice{}, HomeData{
		Cards:      h.views.Cards(result.Data),
		Pagination: view.NewPagination(current, result.Meta.TotalPages),
		Empty:      len(result.Data) == 0,
	})
}

// HandleShow handles GET /blog/{id} requests.
func (h *PostHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		redirectWithNotice(w, r, "/", view.Failure(service.Message(err, "Failed to load blog")))
		return
	}

	viewer, _ := h.renderer.identities.Identity()
	post := h.views.Detail(detail, viewer)
	h.renderer.Render(w, r, http.StatusOK, "post.html", post.Title, view.Notice{}, PostData{Post: post})
}

// HandleNewPage handles GET /create requests.
func (h *PostHandler) HandleNewPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "post_form.html", "Write a new blog", view.Notice{}, newPostForm())
}

// HandleCreate handles POST /create requests.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := newPostForm()
	form.Title, form.Body = r.PostForm.Get("title"), r.PostForm.Get("body")

	if _, err := h.service.Create(r.Context(), service.PostInput{Title: form.Title, Body: form.Body}); err != nil {
		h.renderer.Render(w, r, statusFor(err), "post_form.html", "Write a new blog",
			view.Failure(service.Message(err, "Failed to create blog")), form)
		return
	}

	redirectWithNotice(w, r, "/", view.Success("Blog created successfully!"))
}

// HandleEditPage handles GET /blog/{id}/edit requests.
func (h *PostHandler) HandleEditPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.service.GetForEdit(r.Context(), id)
	if err != nil {
		redirectWithNotice(w, r, "/", view.Failure(service.Message(err, "Failed to load blog")))
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "post_form.html", "Edit blog", view.Notice{},
		editPostForm(id, post.Title, post.Body))
}

// HandleUpdate handles POST /blog/{id}/edit requests.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := editPostForm(id, r.PostForm.Get("title"), r.PostForm.Get("body"))

	_, err := h.service.Update(r.Context(), id, service.PostInput{Title: form.Title, Body: form.Body})
	switch {
	case err == nil:
		redirectWithNotice(w, r, "/blog/"+id, view.Success("Blog updated successfully!"))
	case errors.Is(err, service.ErrNotAuthorized):
		redirectWithNotice(w, r, "/", view.Failure(service.Message(err, "")))
	default:
		h.renderer.Render(w, r, statusFor(err), "post_form.html", "Edit blog",
			view.Failure(service.Message(err, "Failed to update blog")), form)
	}
}

// HandleDeletePage handles GET /blog/{id}/delete requests.
func (h *PostHandler) HandleDeletePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		redirectWithNotice(w, r, "/", view.Failure(service.Message(err, "Failed to load blog")))
		return
	}

	viewer, _ := h.renderer.identities.Identity()
	post := h.views.Detail(detail, viewer)
	if !post.CanDelete {
		redirectWithNotice(w, r, "/blog/"+id, view.Failure("You are not authorized to delete this blog"))
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "delete.html", "Delete blog", view.Notice{}, PostData{Post: post})
}

// HandleDelete handles POST /blog/{id}/delete requests.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		redirectWithNotice(w, r, "/blog/"+id, view.Failure(service.Message(err, "Failed to delete blog")))
		return
	}

	h.logger.Info("post deleted", "post_id", id)
	redirectWithNotice(w, r, "/", view.Success("Blog deleted successfully"))
}

func newPostForm() PostForm {
	return PostForm{Action: "/create", Submit: "Publish"}
}

func editPostForm(id, title, body string) PostForm {
	return PostForm{ID: id, Title: title, Body: body, Action: "/blog/" + id + "/edit", Submit: "Update"}
}
