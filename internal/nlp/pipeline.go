package nlp

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateStage = errors.New("duplicate stage name")
	ErrUnknownStage   = errors.New("unknown stage")
)

// Stage is one processing step applied to a Doc.
type Stage interface {
	Process(ctx context.Context, doc *Doc) error
}

// StageFunc adapts an ordinary function to the Stage interface.
type StageFunc func(ctx context.Context, doc *Doc) error

func (f StageFunc) Process(ctx context.Context, doc *Doc) error {
	return f(ctx, doc)
}

type namedStage struct {
	name  string
	stage Stage
}

// Pipeline applies its stages to a Doc in order. A Pipeline is built once at
// startup and is safe for concurrent Process calls afterwards, provided its
// stages are.
type Pipeline struct {
	stages []namedStage
}

// New creates an empty Pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

type placement struct {
	first  bool
	before string
	after  string
}

// Option controls where AddStage inserts a stage. The default is last.
type Option func(*placement)

// First inserts the stage at the start of the pipeline.
func First() Option {
	return func(p *placement) { p.first = true }
}

// Last appends the stage to the end of the pipeline.
func Last() Option {
	return func(p *placement) { *p = placement{} }
}

// Before inserts the stage immediately before the named stage.
func Before(name string) Option {
	return func(p *placement) { p.before = name }
}

// After inserts the stage immediately after the named stage.
func After(name string) Option {
	return func(p *placement) { p.after = name }
}

// AddStage registers stage under name.
func (p *Pipeline) AddStage(name string, stage Stage, opts ...Option) error {
	if name == "" {
		return errors.New("stage name is required")
	}
	if stage == nil {
		return fmt.Errorf("stage %q: nil stage", name)
	}
	if p.index(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateStage, name)
	}

	var place placement
	for _, opt := range opts {
		opt(&place)
	}

	pos := len(p.stages)
	switch {
	case place.first:
		pos = 0
	case place.before != "":
		pos = p.index(place.before)
		if pos < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownStage, place.before)
		}
	case place.after != "":
		pos = p.index(place.after)
		if pos < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownStage, place.after)
		}
		pos++
	}

	p.stages = slices.Insert(p.stages, pos, namedStage{name: name, stage: stage})
	return nil
}

// StageNames returns the stage names in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// Process runs text through every stage. The first failing stage aborts the
// run; its error is returned wrapped with the stage name.
func (p *Pipeline) Process(ctx context.Context, text string) (*Doc, error) {
	doc := NewDoc(text)
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.stage.Process(ctx, doc); err != nil {
			return nil, fmt.Errorf("stage %s: %w", s.name, err)
		}
	}
	return doc, nil
}

func (p *Pipeline) index(name string) int {
	return slices.IndexFunc(p.stages, func(s namedStage) bool { return s.name == name })
}
