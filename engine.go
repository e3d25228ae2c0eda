package main

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine runs a full compliance pass: classify every artifact, evaluate
// per-layer rules in parallel, evaluate cross-layer rules over the whole
// set, and aggregate the result. The engine holds no mutable state across
// runs; identical input always yields an identical report.
type Engine struct {
	catalog    *Catalog
	evaluators []LayerEvaluator
	cross      *crossLayerEvaluator
	workers    int
	logger     *zap.Logger
}

type EngineOption func(*Engine)

// WithWorkers bounds per-artifact evaluation parallelism.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithEvaluators replaces the built-in layer evaluators. This is the
// substitution seam for deeper (e.g. AST-based) implementations.
func WithEvaluators(evaluators ...LayerEvaluator) EngineOption {
	return func(e *Engine) { e.evaluators = evaluators }
}

func NewEngine(catalog *Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: catalog,
		evaluators: []LayerEvaluator{
			newLayer1Evaluator(),
			newLayer2Evaluator(),
			newLayer3Evaluator(),
			newLayer4Evaluator(),
		},
		cross:   newCrossLayerEvaluator(),
		workers: runtime.NumCPU(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates the artifact set against the catalog. Workers each fill
// their own slot of a per-artifact result slice; collation walks slots in
// input order, so scheduling never changes the report.
func (e *Engine) Run(ctx context.Context, artifacts []Artifact) (*RunReport, error) {
	tagged := make([]Artifact, len(artifacts))
	for i, a := range artifacts {
		a.Layer = Classify(a)
		tagged[i] = a
		e.logger.Debug("classified artifact",
			zap.String("artifact", a.Identifier),
			zap.String("layer", string(a.Layer)))
	}

	perArtifact := make([][]Violation, len(tagged))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range tagged {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perArtifact[i] = e.evaluateArtifact(tagged[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Violation
	for _, violations := range perArtifact {
		all = append(all, violations...)
	}
	all = append(all, e.cross.Evaluate(tagged, e.catalog.CrossRules())...)

	return Aggregate(all), nil
}

// evaluateArtifact runs every evaluator matching the artifact's layer.
// A panicking evaluator is confined to this artifact: the panic becomes a
// synthetic error-severity violation and the run continues.
func (e *Engine) evaluateArtifact(a Artifact) (out []Violation) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("evaluator failed",
				zap.String("artifact", a.Identifier),
				zap.Any("panic", r))
			out = append(out, Violation{
				RuleID:   evalErrorRuleID,
				Artifact: a.Identifier,
				Message:  fmt.Sprintf("evaluation error: %v", r),
				Severity: SeverityError,
			})
		}
	}()

	if a.Layer == LayerUnknown {
		return nil
	}
	for _, evaluator := range e.evaluators {
		if evaluator.Layer() != a.Layer {
			continue
		}
		out = append(out, evaluator.Evaluate(a, e.catalog.RulesFor(evaluator.Layer()))...)
	}
	return out
}
