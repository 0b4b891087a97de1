package web

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// maxFormMemory bounds the in-memory part of a multipart form body.
const maxFormMemory = 32 << 20

// Handlers contains HTTP handlers for the site.
type Handlers struct {
	templates      *Templates
	now            func() time.Time
	contactEnabled bool
}

// NewHandlers creates a new Handlers instance. A nil clock defaults to time.Now.
func NewHandlers(templates *Templates, now func() time.Time, contactEnabled bool) *Handlers {
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		templates:      templates,
		now:            now,
		contactEnabled: contactEnabled,
	}
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index", h.pageData(r, "Home"))
}

// About handles the about page (GET /about).
func (h *Handlers) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, "about", h.pageData(r, "About"))
}

// ContactForm renders the contact form (GET /contact).
func (h *Handlers) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "contact", h.pageData(r, "Contact"))
}

// ContactSubmit acknowledges a contact form submission (POST /contact).
// Missing fields are substituted as empty strings; values are echoed verbatim.
func (h *Handlers) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	name := r.PostForm.Get("name")
	message := r.PostForm.Get("message")

	id := uuid.New()
	log.Printf("Contact submission %s received (%d bytes)", id, len(message))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Submission-ID", id.String())
	fmt.Fprintf(w, "Thanks %s, we received your message: %s", name, message)
}

// Health reports liveness (GET /health).
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// pageData builds the per-request template data. The year is read from the
// clock on every call.
func (h *Handlers) pageData(r *http.Request, title string) PageData {
	return PageData{
		Title:          title,
		CurrentPath:    r.URL.Path,
		CurrentYear:    h.now().Year(),
		ContactEnabled: h.contactEnabled,
	}
}

// render executes a page into a buffer so a failed render never leaks a
// partial page.
func (h *Handlers) render(w http.ResponseWriter, page string, data PageData) {
	var buf bytes.Buffer
	if err := h.templates.Render(&buf, page, data); err != nil {
		log.Printf("Rendering %s: %v", page, err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
