package webform

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-personform/pkg/orchestrator"
	"github.com/goliatone/go-personform/pkg/personform"
	"github.com/goliatone/go-personform/pkg/render"
)

const (
	csrfFieldName = render.CSRFFieldName

	noticeCountriesUnavailable = "Die Länderliste konnte nicht geladen werden."
)

func renderOptions(session *Session) render.RenderOptions {
	options := render.RenderOptions{
		Action:      "/",
		ResetAction: "/reset",
		Hidden:      render.MergeHiddenFields(nil, render.CSRFToken(session.CSRF)),
	}
	if session.Form.LoadError() {
		options.Notices = append(options.Notices, noticeCountriesUnavailable)
	}
	return options
}

// renderPage writes the session's form, negotiated on Accept. The success
// signal is cleared once it has been rendered. Callers hold the session lock.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, session *Session, status int) {
	resp, err := s.orch.Render(r.Context(), orchestrator.Request{
		Snapshot:      session.Form.Snapshot(),
		Accept:        r.Header.Get("Accept"),
		RenderOptions: renderOptions(session),
	})
	if err != nil {
		s.logger.Error("render page", zap.String("session", session.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	session.Form.DismissSuccess()
	writeBody(w, status, resp.ContentType, resp.Body)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	session.Lock()
	defer session.Unlock()

	s.renderPage(w, r, session, http.StatusOK)
}

func (s *Server) handlePageSubmit(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	session.Lock()
	defer session.Unlock()

	for _, field := range personform.Fields() {
		if err := session.Form.SetValue(field, r.PostForm.Get(string(field))); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	status := http.StatusOK
	if _, ok := session.Form.Submit(); !ok {
		status = http.StatusUnprocessableEntity
	}
	s.renderPage(w, r, session, status)
}

func (s *Server) handlePageReset(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	session.Lock()
	session.Form.Reset()
	session.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
