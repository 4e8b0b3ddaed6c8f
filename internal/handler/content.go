package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/pathmuseum/museum/internal/content"
	"github.com/pathmuseum/museum/internal/metrics"
	"github.com/pathmuseum/museum/internal/view"
)

// Description renders a specimen's description.
// GET /description/{type}
func (h *Handler) Description(w http.ResponseWriter, r *http.Request) {
	specimen, ok := h.lookup(w, r, metrics.ContentDescription)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, view.PageDescription, view.DescriptionData{
		Base:     h.base(r, specimen.Title),
		Specimen: specimen,
		Content:  view.Trusted(specimen.Description),
	})
}

// Video renders the player for a specimen's video.
// GET /video/{type}
func (h *Handler) Video(w http.ResponseWriter, r *http.Request) {
	specimen, ok := h.lookup(w, r, metrics.ContentVideo)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, view.PageVideo, view.VideoData{
		Base:     h.base(r, specimen.Title),
		Specimen: specimen,
		VideoURL: "/videos/" + url.PathEscape(specimen.Video),
	})
}

// Model renders the 3D viewer for a specimen's model.
// GET /model/{type}
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	specimen, ok := h.lookup(w, r, metrics.ContentModel)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, view.PageModel, view.ModelData{
		Base:      h.base(r, content.Title(specimen.Key)),
		Specimen:  specimen,
		ModelFile: specimen.Model,
		ModelURL:  "/" + url.PathEscape(specimen.Model),
	})
}

// lookup resolves the {type} URL parameter. Unknown keys redirect home.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, kind string) (content.Specimen, bool) {
	specimen, ok := h.registry.Lookup(chi.URLParam(r, "type"))
	h.metrics.IncContentView(kind, ok)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return content.Specimen{}, false
	}
	return specimen, true
}
