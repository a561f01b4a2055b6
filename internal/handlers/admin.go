package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/clipshelf/backend/internal/logging"
)

// FormSubmission carries an admin form post, including an optional file part.
type FormSubmission struct {
	Values   url.Values
	File     multipart.File
	Filename string
}

// FormField describes one input on an admin form. Kind is text, password or file.
type FormField struct {
	Name  string
	Label string
	Value string
	Kind  string
}

// AdminItem is one row of an admin list page.
type AdminItem struct {
	ID    string
	Cells []string
}

// AdminResource is one record table exposed through the console.
type AdminResource interface {
	Slug() string
	Title() string
	Columns() []string
	List(ctx context.Context) ([]AdminItem, error)
	Form(ctx context.Context, id string) ([]FormField, error)
	Save(ctx context.Context, id string, sub FormSubmission) error
	Delete(ctx context.Context, id string) error
}

// MediaLifecycle captures the side effects a resource runs around
// persistence: video creation derives a thumbnail before the row is usable,
// and deletion cleans up stored media afterwards.
type MediaLifecycle interface {
	BeforePersist(ctx context.Context, id string, sub *FormSubmission) error
	AfterDelete(ctx context.Context, logicalName string) error
}

// AdminHandler serves the generic CRUD console under /admin/.
type AdminHandler struct {
	Resources []AdminResource
}

type adminIndexPage struct {
	Resources []adminIndexEntry
}

type adminIndexEntry struct {
	Slug  string
	Title string
}

type adminListPage struct {
	Slug   string
	Title  string
	Fields []string
	Items  []AdminItem
}

type adminFormPage struct {
	Slug   string
	Title  string
	Action string
	Fields []FormField
	Error  string
}

// Handle dispatches /admin/ paths: the index, per-resource lists, and the
// new/edit/delete forms.
func (h AdminHandler) Handle(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin"), "/")
	if rest == "" {
		h.index(w, r)
		return
	}

	segments := strings.Split(rest, "/")
	resource := h.lookup(segments[0])
	if resource == nil {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(segments) == 1:
		h.list(w, r, resource)
	case len(segments) == 2 && segments[1] == "new":
		h.form(w, r, resource, "")
	case len(segments) == 3 && segments[2] == "edit":
		h.form(w, r, resource, segments[1])
	case len(segments) == 3 && segments[2] == "delete":
		h.delete(w, r, resource, segments[1])
	default:
		http.NotFound(w, r)
	}
}

func (h AdminHandler) lookup(slug string) AdminResource {
	for _, resource := range h.Resources {
		if resource.Slug() == slug {
			return resource
		}
	}
	return nil
}

func (h AdminHandler) index(w http.ResponseWriter, r *http.Request) {
	page := adminIndexPage{}
	for _, resource := range h.Resources {
		page.Resources = append(page.Resources, adminIndexEntry{Slug: resource.Slug(), Title: resource.Title()})
	}
	renderPage(r.Context(), w, "admin_index.html", page)
}

func (h AdminHandler) list(w http.ResponseWriter, r *http.Request, resource AdminResource) {
	ctx := r.Context()

	items, err := resource.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("admin list", "resource", resource.Slug(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	renderPage(ctx, w, "admin_list.html", adminListPage{
		Slug:   resource.Slug(),
		Title:  resource.Title(),
		Fields: resource.Columns(),
		Items:  items,
	})
}

func (h AdminHandler) form(w http.ResponseWriter, r *http.Request, resource AdminResource, id string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	action := "/admin/" + resource.Slug() + "/new"
	if id != "" {
		action = "/admin/" + resource.Slug() + "/" + id + "/edit"
	}

	switch r.Method {
	case http.MethodGet:
		fields, err := resource.Form(ctx, id)
		if err != nil {
			logger.Error("admin form", "resource", resource.Slug(), "id", id, "error", err)
			http.NotFound(w, r)
			return
		}
		renderPage(ctx, w, "admin_form.html", adminFormPage{
			Slug:   resource.Slug(),
			Title:  resource.Title(),
			Action: action,
			Fields: fields,
		})
	case http.MethodPost:
		sub, err := parseSubmission(r)
		if err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		if sub.File != nil {
			defer sub.File.Close()
		}

		if hooked, ok := resource.(MediaLifecycle); ok {
			if err := hooked.BeforePersist(ctx, id, &sub); err != nil {
				logger.Error("admin before-persist hook", "resource", resource.Slug(), "error", err)
				h.reshowForm(w, r, resource, action, err.Error())
				return
			}
		}

		if err := resource.Save(ctx, id, sub); err != nil {
			logger.Error("admin save", "resource", resource.Slug(), "id", id, "error", err)
			h.reshowForm(w, r, resource, action, "save failed")
			return
		}

		http.Redirect(w, r, "/admin/"+resource.Slug(), http.StatusFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h AdminHandler) delete(w http.ResponseWriter, r *http.Request, resource AdminResource, id string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if err := resource.Delete(ctx, id); err != nil {
		logging.FromContext(ctx).Error("admin delete", "resource", resource.Slug(), "id", id, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/"+resource.Slug(), http.StatusFound)
}

func (h AdminHandler) reshowForm(w http.ResponseWriter, r *http.Request, resource AdminResource, action, message string) {
	fields, err := resource.Form(r.Context(), "")
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	renderPage(r.Context(), w, "admin_form.html", adminFormPage{
		Slug:   resource.Slug(),
		Title:  resource.Title(),
		Action: action,
		Fields: fields,
		Error:  message,
	})
}

func parseSubmission(r *http.Request) (FormSubmission, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			return FormSubmission{}, err
		}
		sub := FormSubmission{Values: url.Values(r.MultipartForm.Value)}
		if file, header, err := r.FormFile("video"); err == nil {
			sub.File = file
			sub.Filename = header.Filename
		}
		return sub, nil
	}

	if err := r.ParseForm(); err != nil {
		return FormSubmission{}, err
	}
	return FormSubmission{Values: r.PostForm}, nil
}
