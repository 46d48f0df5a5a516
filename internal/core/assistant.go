package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"kidzcarehub/internal/lang"
	"kidzcarehub/internal/llm"
	"kidzcarehub/internal/metrics"
	"kidzcarehub/internal/translate"
	"kidzcarehub/pkg"
)

// Assistant answers pediatric questions.  It normalises the question into
// English, asks the completion service once and hands the answer back in the
// caller's display language.
type Assistant struct {
	Detector   lang.Detector
	Translator translate.Translator
	LLM        llm.Client
	Prompt     *PromptTemplate
	Log        *zap.Logger
}

// NewAssistant wires an Assistant with the built-in prompt.
func NewAssistant(detector lang.Detector, translator translate.Translator, client llm.Client, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{
		Detector:   detector,
		Translator: translator,
		LLM:        client,
		Prompt:     DefaultPrompt(),
		Log:        log,
	}
}

// Answer runs the full pipeline for one question.  It never returns a bare
// error: failures come back classified in Result.Err.
func (a *Assistant) Answer(ctx context.Context, patientInfo, question string, targetLang pkg.LanguageCode) Result {
	res := a.answer(ctx, patientInfo, question, targetLang)
	outcome := "ok"
	if res.Err != nil {
		outcome = string(res.Err.Kind)
		a.Log.Warn("answer failed",
			zap.String("kind", outcome),
			zap.String("message", res.Err.Message),
			zap.Error(res.Err.Err))
	}
	metrics.AnswersTotal.WithLabelValues(outcome).Inc()
	return res
}

func (a *Assistant) answer(ctx context.Context, patientInfo, question string, targetLang pkg.LanguageCode) Result {
	if strings.TrimSpace(question) == "" {
		return failure(KindInvalidInput, "the question is empty", nil)
	}
	target := pkg.NormalizeLanguage(string(targetLang))
	if target == "" {
		target = pkg.English
	}

	detected, err := timed("detect", func() (pkg.LanguageCode, error) {
		return a.Detector.Detect(ctx, question)
	})
	if err != nil {
		return failure(KindDetection, "could not tell which language your question is in, please add a few more words", err)
	}
	a.Log.Debug("language detected", zap.String("lang", string(detected)))

	english := question
	if detected != pkg.English {
		english, err = timed("translate_in", func() (string, error) {
			return a.Translator.Translate(ctx, question, detected, pkg.English)
		})
		if err != nil {
			return failure(KindTranslation, "could not translate your question to English", err)
		}
	}

	prompt, err := a.Prompt.Render(CompletionRequest{PatientInfo: patientInfo, Question: english})
	if err != nil {
		return failure(KindCompletion, "could not prepare the question", err)
	}
	raw, err := timed("complete", func() (string, error) {
		return a.LLM.Complete(ctx, prompt)
	})
	if err != nil {
		return failure(KindCompletion, completionMessage(err), err)
	}
	answer := strings.TrimSpace(raw)
	if answer == "" {
		return failure(KindCompletion, completionMessage(llm.ErrEmptyCompletion), llm.ErrEmptyCompletion)
	}

	if target != pkg.English {
		answer, err = timed("translate_out", func() (string, error) {
			return a.Translator.Translate(ctx, answer, pkg.English, target)
		})
		if err != nil {
			return failure(KindTranslation, "could not translate the answer to "+string(target), err)
		}
	}
	a.Log.Info("question answered",
		zap.String("prompt_version", a.Prompt.Version),
		zap.String("source_lang", string(detected)),
		zap.String("target_lang", string(target)))
	return Result{Answer: answer}
}

func completionMessage(err error) string {
	switch {
	case errors.Is(err, llm.ErrEmptyCompletion):
		return "the assistant returned an empty answer"
	case errors.Is(err, context.DeadlineExceeded):
		return "the assistant took too long to answer"
	default:
		return "the assistant is unavailable right now"
	}
}

func timed[T any](step string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	metrics.StepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
	return v, err
}
