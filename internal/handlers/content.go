package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vibekrana/frontend-main/internal/models"
	"github.com/vibekrana/frontend-main/internal/session"
	"github.com/vibekrana/frontend-main/internal/upstream"
)

const maxContentImages = 5

type contentPage struct {
	ContentTypes []string
	Platforms    []string
	Request      models.ContentRequest
	Result       *upstream.GenerateResult
	CanRetry     bool
}

func (h *Handler) ContentForm(w http.ResponseWriter, r *http.Request) {
	p := h.newPage(r, "Create Content", "content")
	p.Data = contentPage{
		ContentTypes: models.ContentTypes,
		Platforms:    models.ContentPlatforms,
		Request:      models.ContentRequest{NumImages: 1, Platforms: map[string]bool{}},
	}
	h.render(w, http.StatusOK, "content", p)
}

// validateContent checks every field independently so one submission reports
// all problems at once.
func validateContent(req models.ContentRequest) fieldErrors {
	errs := fieldErrors{}
	if req.Prompt == "" {
		errs.add("prompt", "Describe what you want to create")
	}
	if req.NumImages < 1 || req.NumImages > maxContentImages {
		errs.add("num_images", "Number of images must be between 1 and 5")
	}
	validType := false
	for _, ct := range models.ContentTypes {
		if ct == req.ContentType {
			validType = true
			break
		}
	}
	if !validType {
		errs.add("content_type", "Pick a content type")
	}
	any := false
	for _, p := range models.ContentPlatforms {
		if req.Platforms[p] {
			any = true
			break
		}
	}
	if !any {
		errs.add("platforms", "Select at least one platform")
	}
	return errs
}

func contentRequestFromForm(r *http.Request) models.ContentRequest {
	req := models.ContentRequest{
		Prompt:      formValue(r, "prompt"),
		ContentType: formValue(r, "content_type"),
		Platforms:   map[string]bool{},
	}
	req.NumImages, _ = strconv.Atoi(formValue(r, "num_images"))
	for _, p := range r.PostForm["platforms"] {
		req.Platforms[p] = true
	}
	return req
}

// ContentSubmit handles generation. A normal submit validates the form and
// freezes the payload before calling out; retry=1 replays the frozen payload
// byte for byte, ignoring whatever is in the form now.
func (h *Handler) ContentSubmit(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s := session.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "bad form")
		return
	}

	p := h.newPage(r, "Create Content", "content")
	var req models.ContentRequest

	if formValue(r, "retry") == "1" {
		frozen, err := h.sessions.LastContent(r.Context(), s.ID)
		if err != nil || frozen == nil {
			p.Flash = "Nothing to retry. Fill the form and submit again."
			p.Data = contentPage{ContentTypes: models.ContentTypes, Platforms: models.ContentPlatforms, Request: models.ContentRequest{NumImages: 1, Platforms: map[string]bool{}}}
			h.render(w, http.StatusUnprocessableEntity, "content", p)
			return
		}
		if err := json.Unmarshal(frozen, &req); err != nil {
			h.logger.Printf("[Content][Retry] corrupt payload user=%s err=%v", s.Username, err)
			_ = h.sessions.ClearLastContent(r.Context(), s.ID)
			writeError(w, http.StatusInternalServerError, "retry failed")
			return
		}
	} else {
		req = contentRequestFromForm(r)
		p.Errors = validateContent(req)
		if !p.Errors.ok() {
			p.Data = contentPage{ContentTypes: models.ContentTypes, Platforms: models.ContentPlatforms, Request: req}
			h.render(w, http.StatusUnprocessableEntity, "content", p)
			return
		}
		frozen, err := json.Marshal(req)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "encode failed")
			return
		}
		if err := h.sessions.SetLastContent(r.Context(), s.ID, frozen); err != nil {
			h.logger.Printf("[Content][Freeze] error user=%s err=%v", s.Username, err)
		}
	}

	res, err := h.api.GenerateContent(r.Context(), s.Token, s.Username, req)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			h.endSession(w, r, s)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.logger.Printf("[Content][Generate] error user=%s err=%v", s.Username, err)
		p.Flash = "Generation failed. You can retry with the same request."
		p.Data = contentPage{ContentTypes: models.ContentTypes, Platforms: models.ContentPlatforms, Request: req, CanRetry: true}
		h.render(w, http.StatusBadGateway, "content", p)
		return
	}

	_ = h.sessions.ClearLastContent(r.Context(), s.ID)
	h.logger.Printf("[Content][Generate] ok user=%s job=%s images=%d", s.Username, res.JobID, req.NumImages)
	p.Flash = "Content request submitted"
	p.Data = contentPage{ContentTypes: models.ContentTypes, Platforms: models.ContentPlatforms, Request: req, Result: res}
	h.render(w, http.StatusOK, "content", p)
}
