package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"kidzcarehub/internal/core"
	"kidzcarehub/internal/directory"
	"kidzcarehub/internal/metrics"
	"kidzcarehub/internal/speech"
	"kidzcarehub/pkg"
)

type indexPage struct {
	Prefs       pkg.Preferences
	Languages   []pkg.Language
	Facilities  []pkg.Facility
	Tips        []directory.TipSection
	OperatorURL string
}

type answerFragment struct {
	Patient      pkg.PatientProfile
	Text         string
	Failed       bool
	Kind         core.ErrorKind
	AudioURI     template.URL
	AudioWarning string
}

// handleIndex renders the main page with the caller's preferences applied.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexPage{
		Prefs:       s.preferences(r),
		Languages:   s.languages(r.Context()),
		Facilities:  directory.Facilities(),
		Tips:        directory.HealthTips(),
		OperatorURL: directory.OperatorURL,
	}
	s.render(w, "index.html", data)
}

// handleAsk answers a question submitted from the page.  It returns an HTML
// fragment for HTMX to swap into the answer area.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, "warning", "Sorry, that form could not be read.")
		return
	}
	patient, warning := s.patientFromForm(r)
	if warning != "" {
		s.render(w, "warning", warning)
		return
	}
	question := r.FormValue("question")
	if strings.TrimSpace(question) == "" {
		s.render(w, "warning", core.AskFirstMessage)
		return
	}

	prefs := s.preferences(r)
	res := s.Assistant.Answer(r.Context(), patient.Info(), question, prefs.Language)
	data := answerFragment{Patient: patient, Text: res.Display(), Failed: !res.OK()}
	if !res.OK() {
		data.Kind = res.Err.Kind
	}
	if res.OK() && prefs.VoiceEnabled {
		audio, err := s.synthesize(r.Context(), res.Answer, prefs.Language)
		if err != nil {
			data.AudioWarning = "Oops! Something went wrong: could not read the answer aloud (" + err.Error() + ")"
		} else {
			data.AudioURI = template.URL(audio.DataURI())
		}
	}
	s.render(w, "answer", data)
}

// patientFromForm reads the profile fields.  A non-empty warning means the
// input was rejected.
func (s *Server) patientFromForm(r *http.Request) (pkg.PatientProfile, string) {
	p := pkg.PatientProfile{
		Name:           strings.TrimSpace(r.FormValue("name")),
		MedicalHistory: strings.TrimSpace(r.FormValue("medical_history")),
		Medications:    strings.TrimSpace(r.FormValue("medications")),
	}
	if raw := strings.TrimSpace(r.FormValue("age")); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return p, "Please enter your age as a number."
		}
		p.Age = age
	}
	if err := s.validate.Struct(p); err != nil {
		return p, "Please check your details: age must be between 0 and 18 and the text fields must not be too long."
	}
	return p, ""
}

// synthesize turns an answer into audio and counts the outcome.
func (s *Server) synthesize(ctx context.Context, text string, lang pkg.LanguageCode) (*speech.Audio, error) {
	if s.Speech == nil {
		return nil, errors.New("voice is not configured")
	}
	audio, err := s.Speech.Synthesize(ctx, text, lang)
	if err != nil {
		metrics.SpeechTotal.WithLabelValues("error").Inc()
		s.Log.Warn("speech synthesis failed", zap.String("lang", string(lang)), zap.Error(err))
		return nil, err
	}
	metrics.SpeechTotal.WithLabelValues("ok").Inc()
	return audio, nil
}

// languages lists the display languages with English first.  If the
// translator cannot be reached only English is offered.
func (s *Server) languages(ctx context.Context) []pkg.Language {
	english := []pkg.Language{{Code: pkg.English, Name: "English"}}
	if s.Languages == nil {
		return english
	}
	langs, err := s.Languages.Languages(ctx)
	if err != nil || len(langs) == 0 {
		s.Log.Warn("list languages, falling back to English", zap.Error(err))
		return english
	}
	return langs
}

// offeredLanguage finds code in the selector list and returns the code as
// the translator spells it.
func (s *Server) offeredLanguage(ctx context.Context, code pkg.LanguageCode) (pkg.LanguageCode, bool) {
	for _, l := range s.languages(ctx) {
		if l.Code == code || pkg.NormalizeLanguage(string(l.Code)) == code {
			return l.Code, true
		}
	}
	return "", false
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	prefs := s.preferences(r)
	prefs.Theme = prefs.Theme.Toggle()
	s.updatePreferences(w, r, prefs)
}

// handleVoice follows checkbox semantics: the field is present only when on.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	prefs := s.preferences(r)
	switch strings.ToLower(r.FormValue("voice")) {
	case "on", "true", "1":
		prefs.VoiceEnabled = true
	default:
		prefs.VoiceEnabled = false
	}
	s.updatePreferences(w, r, prefs)
}

func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	code := pkg.NormalizeLanguage(r.FormValue("language"))
	if code == "" {
		http.Error(w, "language is required", http.StatusBadRequest)
		return
	}
	code, ok := s.offeredLanguage(r.Context(), code)
	if !ok {
		http.Error(w, "language is not available", http.StatusBadRequest)
		return
	}
	prefs := s.preferences(r)
	prefs.Language = code
	s.updatePreferences(w, r, prefs)
}

// updatePreferences saves prefs and asks the browser to reload the page.
func (s *Server) updatePreferences(w http.ResponseWriter, r *http.Request, prefs pkg.Preferences) {
	if err := s.savePreferences(r, prefs); err != nil {
		s.Log.Error("save preferences", zap.String("session", sessionID(r)), zap.Error(err))
		http.Error(w, "could not save your settings", http.StatusInternalServerError)
		return
	}
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.Log.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
