package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"kidzcarehub/pkg"
)

// maxChunkRunes is the longest piece of text the TTS endpoint accepts in a
// single request.
const maxChunkRunes = 100

var (
	ErrUnsupportedLanguage = errors.New("speech synthesis does not support language")
	ErrEmptyText           = errors.New("nothing to synthesize")
)

// Audio is a playable clip.
type Audio struct {
	Data        []byte
	ContentType string
}

// Synthesizer converts text in a given language to audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang pkg.LanguageCode) (*Audio, error)
}

// supported lists the voices the Google Translate TTS endpoint offers.
var supported = map[pkg.LanguageCode]bool{
	"af": true, "ar": true, "bg": true, "bn": true, "bs": true, "ca": true, "cs": true,
	"cy": true, "da": true, "de": true, "el": true, "en": true, "eo": true, "es": true,
	"et": true, "fi": true, "fr": true, "gu": true, "hi": true, "hr": true, "hu": true,
	"hy": true, "id": true, "is": true, "it": true, "ja": true, "jw": true, "km": true,
	"kn": true, "ko": true, "la": true, "lv": true, "mk": true, "ml": true, "mr": true,
	"my": true, "ne": true, "nl": true, "no": true, "pl": true, "pt": true, "ro": true,
	"ru": true, "si": true, "sk": true, "sq": true, "sr": true, "su": true, "sv": true,
	"sw": true, "ta": true, "te": true, "th": true, "tl": true, "tr": true, "uk": true,
	"ur": true, "vi": true, "zh": true,
}

// scriptVoices maps script-tagged codes to the regional voice that reads
// that script.
var scriptVoices = map[pkg.LanguageCode]string{
	"zh-Hans": "zh-CN",
	"zh-Hant": "zh-TW",
}

// voice returns the tl parameter for lang, or "" when there is no voice.
func voice(lang pkg.LanguageCode) string {
	code := pkg.NormalizeLanguage(string(lang))
	if v, ok := scriptVoices[code]; ok {
		return v
	}
	if supported[code] {
		return string(code)
	}
	if supported[code.Base()] {
		return string(code.Base())
	}
	return ""
}

// Supports reports whether lang has a voice.
func Supports(lang pkg.LanguageCode) bool {
	return voice(lang) != ""
}

// GoogleTTS fetches MP3 audio from the Google Translate TTS endpoint.  Long
// text is split into chunks; the chunks are spooled into a temporary file
// which is always removed before Synthesize returns.
type GoogleTTS struct {
	http    *resty.Client
	tempDir string
}

// NewGoogleTTS builds a synthesizer.  An empty tempDir uses os.TempDir().
func NewGoogleTTS(baseURL string, timeout time.Duration, tempDir string) *GoogleTTS {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
	return &GoogleTTS{http: c, tempDir: tempDir}
}

func (g *GoogleTTS) Synthesize(ctx context.Context, text string, lang pkg.LanguageCode) (*Audio, error) {
	code := voice(lang)
	if code == "" {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedLanguage, lang)
	}
	chunks := Chunk(text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	f, err := os.CreateTemp(g.tempDir, "speech-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("create speech temp file: %w", err)
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	for i, chunk := range chunks {
		if err := g.fetchChunk(ctx, f, chunk, code, i, len(chunks)); err != nil {
			return nil, err
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind speech temp file: %w", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read speech temp file: %w", err)
	}
	return &Audio{Data: data, ContentType: "audio/mpeg"}, nil
}

func (g *GoogleTTS) fetchChunk(ctx context.Context, w io.Writer, chunk, lang string, idx, total int) error {
	r, err := g.http.R().SetContext(ctx).
		SetQueryParams(map[string]string{
			"ie":      "UTF-8",
			"client":  "tw-ob",
			"q":       chunk,
			"tl":      lang,
			"idx":     strconv.Itoa(idx),
			"total":   strconv.Itoa(total),
			"textlen": strconv.Itoa(len([]rune(chunk))),
		}).
		Get("/translate_tts")
	if err != nil {
		return fmt.Errorf("speech chunk %d/%d: %w", idx+1, total, err)
	}
	if r.IsError() {
		return fmt.Errorf("speech chunk %d/%d: %s", idx+1, total, r.Status())
	}
	if len(r.Body()) == 0 {
		return fmt.Errorf("speech chunk %d/%d: empty audio", idx+1, total)
	}
	if _, err := w.Write(r.Body()); err != nil {
		return fmt.Errorf("spool speech chunk: %w", err)
	}
	return nil
}

// Chunk splits text into pieces of at most limit runes, breaking on
// whitespace where possible.  Words longer than limit are split hard.
func Chunk(text string, limit int) []string {
	var out []string
	var cur []rune
	flush := func() {
		if s := strings.TrimSpace(string(cur)); s != "" {
			out = append(out, s)
		}
		cur = cur[:0]
	}
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > limit {
			flush()
			out = append(out, string(w[:limit]))
			w = w[limit:]
		}
		if len(cur) > 0 && len(cur)+1+len(w) > limit {
			flush()
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, w...)
	}
	flush()
	return out
}

// DataURI encodes audio for inline playback in an <audio> element.
func (a *Audio) DataURI() string {
	return "data:" + a.ContentType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}
