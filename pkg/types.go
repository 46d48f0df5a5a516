package pkg

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// LanguageCode is an ISO-639-1 language code such as "en" or "es".
type LanguageCode string

// English is the working language of the pipeline.  Questions are normalised
// into it before the completion service sees them.
const English LanguageCode = "en"

// NormalizeLanguage lower-cases a language tag and strips any region, so
// "es-MX" and "ES" both become "es".  Script subtags are kept ("zh-Hant")
// and legacy codes such as "tl", "jw" or "iw" are left as written, since
// those are the codes the translation and speech services expect.  Tags
// that are not well-formed are returned lower-cased and trimmed.
func NormalizeLanguage(code string) LanguageCode {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return ""
	}
	if _, err := language.Raw.Parse(code); err != nil {
		return LanguageCode(strings.ToLower(code))
	}
	subtags := strings.Split(code, "-")
	out := strings.ToLower(subtags[0])
	if len(subtags) > 1 && len(subtags[1]) == 4 {
		if script, err := language.ParseScript(subtags[1]); err == nil {
			out += "-" + script.String()
		}
	}
	return LanguageCode(out)
}

// Base returns the primary language subtag, "zh" for "zh-Hant".
func (c LanguageCode) Base() LanguageCode {
	if i := strings.IndexByte(string(c), '-'); i >= 0 {
		return c[:i]
	}
	return c
}

// PatientProfile holds the details collected from the form.  It is rebuilt
// from input on every request and never stored.
type PatientProfile struct {
	Name           string `json:"name" validate:"max=100"`
	Age            int    `json:"age" validate:"min=0,max=18"`
	MedicalHistory string `json:"medical_history" validate:"max=2000"`
	Medications    string `json:"medications" validate:"max=2000"`
}

// Info renders the profile as the patient information block handed to the
// prompt builder.
func (p PatientProfile) Info() string {
	return fmt.Sprintf("\nYour Name: %s\nYour Age: %d years\nMedical History: %s\nMedications: %s\n",
		p.Name, p.Age, p.MedicalHistory, p.Medications)
}

// Theme is the display theme of a session.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preferences are the per-session UI settings.  Each session owns its own
// copy; nothing is shared between sessions.
type Preferences struct {
	Theme        Theme        `json:"theme"`
	VoiceEnabled bool         `json:"voice_enabled"`
	Language     LanguageCode `json:"language"`
}

// DefaultPreferences matches what a new visitor sees: light theme, voice on,
// English answers.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, VoiceEnabled: true, Language: English}
}

// Facility is an entry in the static pediatric care directory.
type Facility struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Address  string `json:"address"`
	MapURL   string `json:"map_url"`
}

// Language is an entry in the display language selector.
type Language struct {
	Code LanguageCode `json:"code"`
	Name string       `json:"name"`
}

// AskRequest is the JSON body of POST /api/answer.
type AskRequest struct {
	Patient  PatientProfile `json:"patient"`
	Question string         `json:"question" validate:"required,max=2000"`
	Language string         `json:"language" validate:"omitempty,max=16"`
}

// AskResponse reports either an answer or a classified failure.
type AskResponse struct {
	Answer    string `json:"answer,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SpeechRequest is the JSON body of POST /api/speech.
type SpeechRequest struct {
	Text     string `json:"text" validate:"required,max=5000"`
	Language string `json:"language" validate:"required,max=16"`
}
