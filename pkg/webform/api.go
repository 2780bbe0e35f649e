package webform

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-personform/pkg/orchestrator"
	"github.com/goliatone/go-personform/pkg/personform"
	"github.com/goliatone/go-personform/pkg/render"
)

type fieldPayload struct {
	Value   *string `json:"value" validate:"required_without=Touched"`
	Touched bool    `json:"touched"`
}

type tooltipPayload struct {
	Visible *bool `json:"visible" validate:"required"`
}

var errInvalidPayload = errors.New("invalid request body")

func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errInvalidPayload
	}
	if err := s.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

// writeSnapshot renders the session's form as JSON. Callers hold the session
// lock.
func (s *Server) writeSnapshot(w http.ResponseWriter, r *http.Request, session *Session, status int) {
	resp, err := s.orch.Render(r.Context(), orchestrator.Request{
		Snapshot:      session.Form.Snapshot(),
		Renderer:      render.JSONRendererName,
		RenderOptions: renderOptions(session),
	})
	if err != nil {
		s.logger.Error("render snapshot", zap.String("session", session.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	writeBody(w, status, resp.ContentType, resp.Body)
}

func fieldParam(r *http.Request) (personform.Field, bool) {
	return personform.ParseField(chi.URLParam(r, "field"))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	session.Lock()
	defer session.Unlock()

	s.writeSnapshot(w, r, session, http.StatusOK)
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	field, ok := fieldParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, personform.ErrUnknownField.Error())
		return
	}

	var payload fieldPayload
	if err := s.decode(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := sessionFrom(r.Context())
	session.Lock()
	defer session.Unlock()

	if payload.Value != nil {
		if err := session.Form.SetValue(field, *payload.Value); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if payload.Touched {
		if err := session.Form.Touch(field); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	s.writeSnapshot(w, r, session, http.StatusOK)
}

func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	field, ok := fieldParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, personform.ErrUnknownField.Error())
		return
	}

	var payload tooltipPayload
	if err := s.decode(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := sessionFrom(r.Context())
	session.Lock()
	defer session.Unlock()

	var err error
	if *payload.Visible {
		err = session.Form.ShowTooltip(field)
	} else {
		err = session.Form.HideTooltip(field)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeSnapshot(w, r, session, http.StatusOK)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	session.Lock()
	defer session.Unlock()

	status := http.StatusOK
	if _, ok := session.Form.Submit(); !ok {
		status = http.StatusUnprocessableEntity
	}
	s.writeSnapshot(w, r, session, status)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	session.Lock()
	defer session.Unlock()

	session.Form.Reset()
	s.writeSnapshot(w, r, session, http.StatusOK)
}
