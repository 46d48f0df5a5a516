package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"kidzcarehub/pkg"
)

// Auto asks the backend to detect the source language itself.
const Auto pkg.LanguageCode = "auto"

var (
	// ErrUnsupportedLanguage is returned when the backend rejects the
	// language pair.
	ErrUnsupportedLanguage = errors.New("unsupported language pair")
	// ErrEmptyTranslation is returned when the backend answers 200 without
	// any text.
	ErrEmptyTranslation = errors.New("translation returned no text")
)

// Translator translates text between two language codes.
type Translator interface {
	Translate(ctx context.Context, text string, source, target pkg.LanguageCode) (string, error)
}

// LanguageLister lists the languages a backend can translate to.
type LanguageLister interface {
	Languages(ctx context.Context) ([]pkg.Language, error)
}

// LibreTranslate talks to a LibreTranslate-compatible HTTP API.
type LibreTranslate struct {
	apiKey string
	http   *resty.Client
}

func NewLibreTranslate(baseURL, apiKey string, timeout time.Duration) *LibreTranslate {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &LibreTranslate{apiKey: apiKey, http: c}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (l *LibreTranslate) Translate(ctx context.Context, text string, source, target pkg.LanguageCode) (string, error) {
	var out translateResponse
	var apiErr errorResponse
	r, err := l.http.R().SetContext(ctx).
		SetBody(translateRequest{
			Q:      text,
			Source: string(source),
			Target: string(target),
			Format: "text",
			APIKey: l.apiKey,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/translate")
	if err != nil {
		return "", fmt.Errorf("translate %s->%s: %w", source, target, err)
	}
	if r.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = r.String()
		}
		if r.StatusCode() == 400 {
			return "", fmt.Errorf("%w %s->%s: %s", ErrUnsupportedLanguage, source, target, msg)
		}
		return "", fmt.Errorf("translate %s->%s: %s: %s", source, target, r.Status(), msg)
	}
	if strings.TrimSpace(out.TranslatedText) == "" && strings.TrimSpace(text) != "" {
		return "", ErrEmptyTranslation
	}
	return out.TranslatedText, nil
}

// Languages returns the backend's language list with English first.
func (l *LibreTranslate) Languages(ctx context.Context) ([]pkg.Language, error) {
	var raw []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	r, err := l.http.R().SetContext(ctx).SetResult(&raw).Get("/languages")
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	if r.IsError() {
		return nil, fmt.Errorf("list languages: %s; body: %s", r.Status(), r.String())
	}

	out := []pkg.Language{{Code: pkg.English, Name: "English"}}
	seen := map[pkg.LanguageCode]bool{pkg.English: true}
	for _, lang := range raw {
		code := pkg.LanguageCode(strings.TrimSpace(lang.Code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, pkg.Language{Code: code, Name: lang.Name})
	}
	return out, nil
}
