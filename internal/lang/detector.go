package lang

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"

	"kidzcarehub/pkg"
)

// ErrUndetectable is returned for text that is empty or too short or
// ambiguous to classify.
var ErrUndetectable = errors.New("language could not be detected")

// DefaultLanguages are the question languages accepted when none are
// configured.
var DefaultLanguages = []pkg.LanguageCode{"en", "es", "fr", "de", "pt"}

// whatlangCodes maps the codes the translator uses to whatlanggo's
// identifiers.
var whatlangCodes = map[pkg.LanguageCode]whatlanggo.Lang{
	"ar": whatlanggo.Arb,
	"de": whatlanggo.Deu,
	"en": whatlanggo.Eng,
	"es": whatlanggo.Spa,
	"fr": whatlanggo.Fra,
	"hi": whatlanggo.Hin,
	"id": whatlanggo.Ind,
	"it": whatlanggo.Ita,
	"ja": whatlanggo.Jpn,
	"ko": whatlanggo.Kor,
	"nl": whatlanggo.Nld,
	"pl": whatlanggo.Pol,
	"pt": whatlanggo.Por,
	"ru": whatlanggo.Rus,
	"tl": whatlanggo.Tgl,
	"tr": whatlanggo.Tur,
	"uk": whatlanggo.Ukr,
	"vi": whatlanggo.Vie,
	"zh": whatlanggo.Cmn,
}

// Detector classifies the language of a piece of text.
type Detector interface {
	Detect(ctx context.Context, text string) (pkg.LanguageCode, error)
}

// Options restrict what WhatlangDetector may answer.  Languages outside the
// list are never returned.  MinConfidence raises the bar above whatlanggo's
// own reliability threshold.
type Options struct {
	Languages     []pkg.LanguageCode
	MinConfidence float64
}

// WhatlangDetector is an offline detector backed by whatlanggo.  It refuses
// to answer when the classification is not reliable.
type WhatlangDetector struct {
	options       whatlanggo.Options
	allowed       map[pkg.LanguageCode]bool
	minConfidence float64
}

// NewWhatlangDetector builds a detector.  Codes without a whatlanggo profile
// are returned in the error so misconfiguration shows up at startup.
func NewWhatlangDetector(opts Options) (*WhatlangDetector, error) {
	langs := opts.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	d := &WhatlangDetector{
		options:       whatlanggo.Options{Whitelist: make(map[whatlanggo.Lang]bool, len(langs))},
		allowed:       make(map[pkg.LanguageCode]bool, len(langs)),
		minConfidence: opts.MinConfidence,
	}
	var unknown []string
	for _, code := range langs {
		code = pkg.NormalizeLanguage(string(code))
		wl, ok := whatlangCodes[code]
		if !ok {
			unknown = append(unknown, string(code))
			continue
		}
		d.options.Whitelist[wl] = true
		d.allowed[code] = true
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("no detection profile for languages: %s", strings.Join(unknown, ", "))
	}
	return d, nil
}

func (d *WhatlangDetector) Detect(ctx context.Context, text string) (pkg.LanguageCode, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if !hasLetters(text) {
		return "", fmt.Errorf("%w: no letters in input", ErrUndetectable)
	}
	info := whatlanggo.DetectWithOptions(text, d.options)
	if info.Lang < 0 {
		return "", fmt.Errorf("%w: %q", ErrUndetectable, abbreviate(text, 40))
	}
	code := pkg.NormalizeLanguage(info.Lang.Iso6391())
	// Single-language scripts bypass the whitelist inside whatlanggo.
	if code == "" || !d.allowed[code] {
		return "", fmt.Errorf("%w: %q", ErrUndetectable, abbreviate(text, 40))
	}
	if !info.IsReliable() || info.Confidence < d.minConfidence {
		return "", fmt.Errorf("%w: %q looks like %s at confidence %.2f",
			ErrUndetectable, abbreviate(text, 40), code, info.Confidence)
	}
	return code, nil
}

func hasLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
