package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/vibekrana/frontend-main/internal/avatar"
	"github.com/vibekrana/frontend-main/internal/models"
	"github.com/vibekrana/frontend-main/internal/session"
	"github.com/vibekrana/frontend-main/internal/survey"
	"github.com/vibekrana/frontend-main/internal/upstream"
)

type profilePage struct {
	Profile       *models.UserProfile
	Business      *survey.BusinessType
	BusinessTypes []survey.BusinessType
	Connections   []platformTile
	JoinDate      string
	Editing       bool
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())

	var (
		wg        sync.WaitGroup
		profile   *models.UserProfile
		status    models.SocialStatus
		profErr   error
		statusErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profErr = h.api.Profile(r.Context(), s.Token, s.Username)
	}()
	go func() {
		defer wg.Done()
		status, statusErr = h.api.SocialStatus(r.Context(), s.Token, s.Username)
	}()
	wg.Wait()

	if errors.Is(profErr, upstream.ErrUnauthorized) || errors.Is(statusErr, upstream.ErrUnauthorized) {
		h.logger.Printf("[Profile][Load] token rejected user=%s", s.Username)
		h.endSession(w, r, s)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if profErr != nil {
		h.logger.Printf("[Profile][Load] error user=%s err=%v", s.Username, profErr)
		profile = &models.UserProfile{Username: s.Username}
	}
	if statusErr != nil {
		status = models.SocialStatus{}
	}

	p := h.newPage(r, "Your Profile", "profile")
	p.Data = h.profileData(profile, status, formValue(r, "edit") == "1")
	h.render(w, http.StatusOK, "profile", p)
}

// ProfileUpdate saves the edit form. The whole editable snapshot goes in one
// update; the page then shows the profile exactly as the API returned it.
func (h *Handler) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s := session.FromContext(r.Context())
	name := formValue(r, "name")
	email := formValue(r, "email")
	businessType := formValue(r, "business_type")

	p := h.newPage(r, "Your Profile", "profile")
	if email != "" && !emailRe.MatchString(email) {
		p.Errors.add("email", "Enter a valid email address")
	}
	if businessType != "" && !survey.Known(businessType) {
		p.Errors.add("business_type", "Pick a business type")
	}
	if !p.Errors.ok() {
		prof := &models.UserProfile{Username: s.Username, Name: name, Email: email, BusinessType: businessType}
		p.Data = h.profileData(prof, models.SocialStatus{}, true)
		h.render(w, http.StatusUnprocessableEntity, "profile", p)
		return
	}

	updated, err := h.api.UpdateProfile(r.Context(), s.Token, upstream.ProfileUpdate{
		Username:     s.Username,
		Name:         name,
		Email:        email,
		BusinessType: businessType,
	})
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			h.endSession(w, r, s)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.logger.Printf("[Profile][Update] error user=%s err=%v", s.Username, err)
		p.Flash = "Profile could not be saved. Please try again."
		prof := &models.UserProfile{Username: s.Username, Name: name, Email: email, BusinessType: businessType}
		p.Data = h.profileData(prof, models.SocialStatus{}, true)
		h.render(w, http.StatusBadGateway, "profile", p)
		return
	}

	status, err := h.api.SocialStatus(r.Context(), s.Token, s.Username)
	if err != nil {
		status = models.SocialStatus{}
	}
	h.logger.Printf("[Profile][Update] ok user=%s", s.Username)
	p.Flash = "Profile updated"
	p.Data = h.profileData(updated, status, false)
	h.render(w, http.StatusOK, "profile", p)
}

func (h *Handler) profileData(profile *models.UserProfile, status models.SocialStatus, editing bool) profilePage {
	profile.ConnectedAccounts = status.Connected()
	data := profilePage{
		Profile:       profile,
		Business:      survey.Lookup(profile.BusinessType),
		BusinessTypes: survey.BusinessTypes(),
		JoinDate:      profile.JoinDate(),
		Editing:       editing,
	}
	for _, name := range models.Platforms {
		cs := status[name]
		if cs.Connected {
			data.Connections = append(data.Connections, platformTile{Name: name, Connected: true, Detail: cs.Detail})
		}
	}
	return data
}

// Avatar serves the generated initial-letter image for a username.
// URL: /avatar/{username}.png?size=128
func (h *Handler) Avatar(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSuffix(pathVar(r, "username"), ".png")
	if username == "" {
		writeError(w, http.StatusBadRequest, "missing username")
		return
	}
	size := 128
	if v := formValue(r, "size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			size = n
		}
	}
	img, err := avatar.Render(username, size)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(img)
}

// Placeholder renders the coming-soon page for dashboard sections that are
// not built yet.
func (h *Handler) Placeholder(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := h.newPage(r, title, strings.ToLower(title))
		p.Data = title
		h.render(w, http.StatusOK, "placeholder", p)
	}
}
