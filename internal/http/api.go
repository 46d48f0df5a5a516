package http

import (
	"errors"
	"net/http"

	"kidzcarehub/internal/core"
	"kidzcarehub/internal/directory"
	"kidzcarehub/internal/speech"
	"kidzcarehub/pkg"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}

func (s *Server) handleFacilities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, "facilities", directory.Facilities())
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if s.Languages == nil {
		writeJSON(w, http.StatusOK, "languages", s.languages(r.Context()))
		return
	}
	langs, err := s.Languages.Languages(r.Context())
	if err != nil {
		writeError(s.Log, w, http.StatusBadGateway, "could not list languages", err)
		return
	}
	writeJSON(w, http.StatusOK, "languages", langs)
}

// handleAnswerAPI runs the pipeline for a JSON request.  The response keeps
// the failure kind so clients can tell a pipeline error from an answer.
func (s *Server) handleAnswerAPI(w http.ResponseWriter, r *http.Request) {
	var req pkg.AskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(s.Log, w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		msg := validationMessage(err)
		writeJSON(w, http.StatusBadRequest, msg,
			pkg.AskResponse{ErrorKind: string(core.KindInvalidInput), Error: msg})
		return
	}
	target := pkg.NormalizeLanguage(req.Language)
	if target == "" {
		target = s.preferences(r).Language
	}

	res := s.Assistant.Answer(r.Context(), req.Patient.Info(), req.Question, target)
	if res.OK() {
		writeJSON(w, http.StatusOK, "answered", pkg.AskResponse{Answer: res.Answer})
		return
	}
	code := http.StatusBadGateway
	if res.Err.Kind == core.KindInvalidInput {
		code = http.StatusBadRequest
	}
	writeJSON(w, code, res.Display(), pkg.AskResponse{ErrorKind: string(res.Err.Kind), Error: res.Display()})
}

// handleSpeechAPI returns the synthesized audio as the response body.
func (s *Server) handleSpeechAPI(w http.ResponseWriter, r *http.Request) {
	var req pkg.SpeechRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(s.Log, w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, validationMessage(err), nil)
		return
	}
	lang := pkg.NormalizeLanguage(req.Language)
	if !speech.Supports(lang) {
		writeJSON(w, http.StatusBadRequest, "voice is not available for "+string(lang), nil)
		return
	}
	audio, err := s.synthesize(r.Context(), req.Text, lang)
	switch {
	case errors.Is(err, speech.ErrUnsupportedLanguage), errors.Is(err, speech.ErrEmptyText):
		writeJSON(w, http.StatusBadRequest, err.Error(), nil)
		return
	case err != nil:
		writeError(s.Log, w, http.StatusBadGateway, "could not synthesize speech", err)
		return
	}
	w.Header().Set("Content-Type", audio.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio.Data)
}
