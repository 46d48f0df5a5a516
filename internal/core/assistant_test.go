package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"kidzcarehub/internal/lang"
	"kidzcarehub/internal/llm"
	"kidzcarehub/internal/translate"
	"kidzcarehub/pkg"
)

type fakeDetector struct {
	lang  pkg.LanguageCode
	err   error
	calls int
}

func (f *fakeDetector) Detect(_ context.Context, _ string) (pkg.LanguageCode, error) {
	f.calls++
	return f.lang, f.err
}

type translateCall struct {
	text           string
	source, target pkg.LanguageCode
}

type fakeTranslator struct {
	phrases map[string]string
	err     error
	calls   []translateCall
}

func (f *fakeTranslator) Translate(_ context.Context, text string, source, target pkg.LanguageCode) (string, error) {
	f.calls = append(f.calls, translateCall{text, source, target})
	if f.err != nil {
		return "", f.err
	}
	out, ok := f.phrases[text]
	if !ok {
		return "", translate.ErrUnsupportedLanguage
	}
	return out, nil
}

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newTestAssistant(t *testing.T, d *fakeDetector, tr *fakeTranslator, c *fakeLLM) *Assistant {
	return NewAssistant(d, tr, c, zaptest.NewLogger(t))
}

func TestAnswerEnglishPassthrough(t *testing.T) {
	d := &fakeDetector{lang: pkg.English}
	tr := &fakeTranslator{}
	c := &fakeLLM{reply: "  Rest and drink plenty of fluids.\n"}

	res := newTestAssistant(t, d, tr, c).Answer(context.Background(), "Your Age: 7 years", "Why do I have a fever?", pkg.English)

	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, "Rest and drink plenty of fluids.", res.Answer)
	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "Why do I have a fever?")
	assert.Contains(t, c.prompts[0], "Your Age: 7 years")
	assert.Empty(t, tr.calls, "english in and out must not call the translator")
}

func TestAnswerTranslatesBothWays(t *testing.T) {
	d := &fakeDetector{lang: "es"}
	tr := &fakeTranslator{phrases: map[string]string{
		"¿Por qué tengo fiebre?": "Why do I have a fever?",
		"Drink water and rest.":  "Bebe agua y descansa.",
	}}
	c := &fakeLLM{reply: "\n Drink water and rest. \n"}

	res := newTestAssistant(t, d, tr, c).Answer(context.Background(), "Your Age: 9 years", "¿Por qué tengo fiebre?", "es-MX")

	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, "Bebe agua y descansa.", res.Answer)
	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "Why do I have a fever?")
	assert.NotContains(t, c.prompts[0], "fiebre")
	require.Len(t, tr.calls, 2)
	assert.Equal(t, translateCall{"¿Por qué tengo fiebre?", "es", pkg.English}, tr.calls[0])
	// the answer is trimmed before it is translated
	assert.Equal(t, translateCall{"Drink water and rest.", pkg.English, "es"}, tr.calls[1])
}

func TestAnswerShortEnglishWithRealDetector(t *testing.T) {
	detector, err := lang.NewWhatlangDetector(lang.Options{Languages: []pkg.LanguageCode{pkg.English}})
	require.NoError(t, err)
	tr := &fakeTranslator{}
	c := &fakeLLM{reply: "Rest and drink fluids."}

	res := NewAssistant(detector, tr, c, zaptest.NewLogger(t)).
		Answer(context.Background(), "Your Age: 7 years", "Why do I have a fever?", pkg.English)

	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "Why do I have a fever?")
	assert.Empty(t, tr.calls)
}

func TestAnswerEmptyTargetDefaultsToEnglish(t *testing.T) {
	tr := &fakeTranslator{}
	res := newTestAssistant(t, &fakeDetector{lang: pkg.English}, tr, &fakeLLM{reply: "ok"}).
		Answer(context.Background(), "", "Is milk good for me?", "")
	require.True(t, res.OK())
	assert.Equal(t, "ok", res.Answer)
	assert.Empty(t, tr.calls)
}

func TestAnswerCompletionFailure(t *testing.T) {
	providerErr := errors.New("401 invalid api key")
	c := &fakeLLM{err: providerErr}

	res := newTestAssistant(t, &fakeDetector{lang: pkg.English}, &fakeTranslator{}, c).
		Answer(context.Background(), "", "Why do I cough at night?", pkg.English)

	require.False(t, res.OK())
	assert.Equal(t, KindCompletion, res.Err.Kind)
	assert.ErrorIs(t, res.Err, providerErr)
	assert.Empty(t, res.Answer)
	assert.True(t, strings.HasPrefix(res.Display(), "Oops! Something went wrong: "))
}

func TestAnswerBlankCompletionIsAnError(t *testing.T) {
	res := newTestAssistant(t, &fakeDetector{lang: pkg.English}, &fakeTranslator{}, &fakeLLM{reply: " \n\t"}).
		Answer(context.Background(), "", "Why do I sneeze?", pkg.English)
	require.False(t, res.OK())
	assert.Equal(t, KindCompletion, res.Err.Kind)
	assert.ErrorIs(t, res.Err, llm.ErrEmptyCompletion)
}

func TestAnswerRejectsBeforeCompletion(t *testing.T) {
	tests := []struct {
		name     string
		question string
		detector *fakeDetector
		kind     ErrorKind
		detects  int
	}{
		{"empty", "", &fakeDetector{lang: pkg.English}, KindInvalidInput, 0},
		{"whitespace", "  \n\t ", &fakeDetector{lang: pkg.English}, KindInvalidInput, 0},
		{"undetectable", "12345 ???", &fakeDetector{err: lang.ErrUndetectable}, KindDetection, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeLLM{reply: "never"}
			res := newTestAssistant(t, tt.detector, &fakeTranslator{}, c).
				Answer(context.Background(), "", tt.question, pkg.English)
			require.False(t, res.OK())
			assert.Equal(t, tt.kind, res.Err.Kind)
			assert.Equal(t, tt.detects, tt.detector.calls)
			assert.Empty(t, c.prompts)
		})
	}
}

func TestAnswerTranslationFailures(t *testing.T) {
	t.Run("question", func(t *testing.T) {
		c := &fakeLLM{reply: "never"}
		res := newTestAssistant(t, &fakeDetector{lang: "xx"}, &fakeTranslator{}, c).
			Answer(context.Background(), "", "blorp", pkg.English)
		require.False(t, res.OK())
		assert.Equal(t, KindTranslation, res.Err.Kind)
		assert.ErrorIs(t, res.Err, translate.ErrUnsupportedLanguage)
		assert.Empty(t, c.prompts)
	})
	t.Run("answer", func(t *testing.T) {
		c := &fakeLLM{reply: "Sleep well."}
		res := newTestAssistant(t, &fakeDetector{lang: pkg.English}, &fakeTranslator{}, c).
			Answer(context.Background(), "", "How much should I sleep?", "fr")
		require.False(t, res.OK())
		assert.Equal(t, KindTranslation, res.Err.Kind)
		assert.Len(t, c.prompts, 1)
		assert.Contains(t, res.Display(), "fr")
	})
}

func TestResultDisplay(t *testing.T) {
	assert.Equal(t, "hello", Result{Answer: "hello"}.Display())
	assert.Equal(t, AskFirstMessage, failure(KindInvalidInput, "the question is empty", nil).Display())
	assert.Equal(t, "Oops! Something went wrong: boom", failure(KindSynthesis, "boom", nil).Display())
	assert.Equal(t, "Oops! Something went wrong: boom (cause)",
		failure(KindCompletion, "boom", errors.New("cause")).Display())
}
