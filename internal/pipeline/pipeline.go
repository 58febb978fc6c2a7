// Package pipeline files one pasted log: classify, parse, resolve, write,
// and fall back to saving the raw text when any of those stages fails.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/suykerbuyk/logvault/internal/classify"
	"github.com/suykerbuyk/logvault/internal/logging"
	"github.com/suykerbuyk/logvault/internal/render"
	"github.com/suykerbuyk/logvault/internal/response"
	"github.com/suykerbuyk/logvault/internal/vault"
)

// State is a pipeline state.
type State int

const (
	Idle State = iota
	Classifying
	Parsing
	Resolving
	Writing
	Succeeded
	SucceededViaFallback
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Classifying:
		return "classifying"
	case Parsing:
		return "parsing"
	case Resolving:
		return "resolving"
	case Writing:
		return "writing"
	case Succeeded:
		return "succeeded"
	case SucceededViaFallback:
		return "succeeded_via_fallback"
	default:
		return "unknown"
	}
}

// Kind names the error class that sent a run to the fallback path.
type Kind string

const (
	KindNone    Kind = ""
	KindService Kind = "service"
	KindParse   Kind = "parse"
	KindIO      Kind = "io"
	KindOther   Kind = "other"
)

// KindOf maps an error to its kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, classify.ErrService):
		return KindService
	case errors.Is(err, response.ErrParse):
		return KindParse
	case errors.Is(err, vault.ErrIO):
		return KindIO
	default:
		return KindOther
	}
}

// Deps are the collaborators of a run.
type Deps struct {
	Root      string
	Generator classify.Generator

	// Now defaults to time.Now.
	Now func() time.Time

	// Timeout bounds the generation call. Zero means no deadline.
	Timeout time.Duration

	// OnFiled, when set, is called once after the artifact is written.
	OnFiled func(ctx context.Context, o *Outcome)
}

// Outcome is the result of a run that wrote an artifact.
//
// State is Succeeded when the structured artifact was written and
// SucceededViaFallback when the raw text was saved instead. For the latter
// FailedStage, Kind and Cause describe the failure.
type Outcome struct {
	State          State
	Path           string
	Entry          render.Entry
	Classification *response.Classification
	FailedStage    State
	Kind           Kind
	Cause          error
}

// ViaFallback reports whether the raw text was saved instead.
func (o *Outcome) ViaFallback() bool {
	return o.State == SucceededViaFallback
}

// Run files text under deps.Root. It returns ErrEmptyInput or ErrNoGenerator
// before doing any work, and ErrFallback when the fallback write itself
// fails. Every other failure is recorded in the Outcome.
func Run(ctx context.Context, deps Deps, text string) (*Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if deps.Generator == nil {
		return nil, ErrNoGenerator
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}
	entry := render.Entry{Text: text, CapturedAt: now()}
	logger := logging.From(ctx)

	out, stage, err := file(ctx, deps, entry)
	if err == nil {
		logger.Info("filed log", "path", out.Path, "project", out.Classification.ProjectName)
		notify(ctx, deps, out)
		return out, nil
	}

	kind := KindOf(err)
	logger.Warn("classification failed, saving original text",
		"stage", stage.String(),
		"kind", string(kind),
		"error", err.Error(),
	)

	path, ferr := vault.Fallback(deps.Root, entry)
	if ferr != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrFallback, ferr), "save original text",
			goerr.V("root", deps.Root),
			goerr.V("stage", stage.String()),
			goerr.V("pipeline_error", err.Error()))
	}

	out = &Outcome{
		State:       SucceededViaFallback,
		Path:        path,
		Entry:       entry,
		FailedStage: stage,
		Kind:        kind,
		Cause:       err,
	}
	notify(ctx, deps, out)
	return out, nil
}

// file runs the structured path and reports the stage it stopped in.
func file(ctx context.Context, deps Deps, entry render.Entry) (*Outcome, State, error) {
	gctx := ctx
	if deps.Timeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, deps.Timeout)
		defer cancel()
	}

	raw, err := classify.Classify(gctx, deps.Generator, entry.Text)
	if err != nil {
		return nil, Classifying, err
	}

	c, err := response.Parse(raw)
	if err != nil {
		return nil, Parsing, err
	}

	artifact, err := resolve(deps.Root, *c, entry)
	if err != nil {
		return nil, Resolving, err
	}

	path, err := vault.Write(artifact)
	if err != nil {
		return nil, Writing, err
	}

	return &Outcome{
		State:          Succeeded,
		Path:           path,
		Entry:          entry,
		Classification: c,
	}, Succeeded, nil
}

// resolve guards the pure resolver so a panic on unexpected input still
// lands on the fallback path.
func resolve(root string, c response.Classification, e render.Entry) (a render.Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New("resolve artifact", goerr.V("panic", fmt.Sprint(r)))
		}
	}()
	return render.Resolve(root, c, e), nil
}

func notify(ctx context.Context, deps Deps, o *Outcome) {
	if deps.OnFiled != nil {
		deps.OnFiled(ctx, o)
	}
}
