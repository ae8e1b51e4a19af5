package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vibekrana/frontend-main/internal/models"
	"github.com/vibekrana/frontend-main/internal/session"
	"github.com/vibekrana/frontend-main/internal/survey"
	"github.com/vibekrana/frontend-main/internal/upstream"
)

type surveyPage struct {
	BusinessTypes []survey.BusinessType
	Selected      *survey.BusinessType
	Questions     []survey.Question
	ColorCount    int
	Colors        []string
}

// SurveyForm shows the business type grid, or the question list once a type
// is chosen via the type query parameter.
func (h *Handler) SurveyForm(w http.ResponseWriter, r *http.Request) {
	p := h.newPage(r, "Tell Us About Your Business", "survey")
	data := surveyPage{BusinessTypes: survey.BusinessTypes()}
	if bt := formValue(r, "type"); bt != "" && survey.Known(bt) {
		data.Selected = survey.Lookup(bt)
		data.Questions = survey.QuestionsFor(bt)
		data.ColorCount, data.Colors = survey.NormalizeColors(2, nil)
	}
	p.Data = data
	h.render(w, http.StatusOK, "survey", p)
}

func (h *Handler) SurveySubmit(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s := session.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "bad form")
		return
	}

	businessType := formValue(r, "business_type")
	p := h.newPage(r, "Tell Us About Your Business", "survey")
	if !survey.Known(businessType) {
		p.Flash = "Please pick a business type first"
		p.Data = surveyPage{BusinessTypes: survey.BusinessTypes()}
		h.render(w, http.StatusUnprocessableEntity, "survey", p)
		return
	}

	raw := map[string]any{}
	for _, q := range survey.QuestionsFor(businessType) {
		switch q.Kind {
		case survey.KindCheckbox:
			if vals := r.PostForm["q_"+q.ID]; len(vals) > 0 {
				raw[q.ID] = vals
			}
		case survey.KindMultiColor:
			// Handled below via BuildAnswers.
		default:
			if v := formValue(r, "q_"+q.ID); v != "" {
				raw[q.ID] = v
			}
		}
	}
	colorCount, _ := strconv.Atoi(formValue(r, "color_count"))
	answers := survey.BuildAnswers(raw, colorCount, r.PostForm["q_color_theme"])

	resp := models.SurveyResponse{
		UserID:       s.RegisteredUser,
		BusinessType: businessType,
		Answers:      answers,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	if resp.UserID == "" {
		resp.UserID = s.Username
	}
	if err := h.api.SubmitSurvey(r.Context(), s.Token, resp); err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			h.endSession(w, r, s)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.logger.Printf("[Survey][Submit] error user=%s type=%s err=%v", s.Username, businessType, err)
		p.Flash = "We could not save your answers. Please try again."
		data := surveyPage{
			BusinessTypes: survey.BusinessTypes(),
			Selected:      survey.Lookup(businessType),
			Questions:     survey.QuestionsFor(businessType),
		}
		data.ColorCount, data.Colors = survey.NormalizeColors(colorCount, r.PostForm["q_color_theme"])
		p.Data = data
		h.render(w, http.StatusBadGateway, "survey", p)
		return
	}
	h.logger.Printf("[Survey][Submit] ok user=%s type=%s answers=%d", s.Username, businessType, len(answers))
	http.Redirect(w, r, "/connect", http.StatusSeeOther)
}
