package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/vibekrana/frontend-main/internal/models"
	"github.com/vibekrana/frontend-main/internal/oauth"
	"github.com/vibekrana/frontend-main/internal/session"
	"github.com/vibekrana/frontend-main/internal/upstream"
)

type platformTile struct {
	Name        string
	Connectable bool
	Connected   bool
	Detail      *models.ConnectionDetail
}

type connectPage struct {
	Profile   *models.UserProfile
	Tiles     []platformTile
	Connected int
	LoadError bool
}

// Connect renders the social accounts page. Profile and connection status are
// fetched concurrently; a failure of either degrades the page instead of
// failing it.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
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
		h.logger.Printf("[Connect][Load] token rejected user=%s", s.Username)
		h.endSession(w, r, s)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if profErr != nil {
		h.logger.Printf("[Connect][Profile] error user=%s err=%v", s.Username, profErr)
		profile = &models.UserProfile{Username: s.Username}
	}
	if statusErr != nil {
		h.logger.Printf("[Connect][Status] error user=%s err=%v", s.Username, statusErr)
		status = models.SocialStatus{}
		for _, name := range models.Platforms {
			status[name] = models.ConnectionStatus{}
		}
	}

	data := connectPage{
		Profile:   profile,
		Connected: status.Connected(),
		LoadError: statusErr != nil,
	}
	for _, name := range models.Platforms {
		cs := status[name]
		data.Tiles = append(data.Tiles, platformTile{
			Name:        name,
			Connectable: oauth.Connectable(name),
			Connected:   cs.Connected,
			Detail:      cs.Detail,
		})
	}

	p := h.newPage(r, "Connect Your Accounts", "connect")
	p.Data = data
	h.render(w, http.StatusOK, "connect", p)
}
