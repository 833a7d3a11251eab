package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/chazu/hull/pkg/ccd"
	"github.com/chazu/hull/pkg/checker"
	"github.com/chazu/hull/pkg/config"
	"github.com/chazu/hull/pkg/output"
	"github.com/chazu/hull/pkg/scene"
	"github.com/chazu/hull/pkg/tessellate"
)

// App evaluates scenes and runs their queries.
type App struct {
	cfg       *config.Config
	evaluator *scene.Evaluator
	checker   *checker.Checker
	out       *output.Manager
	logger    *log.Logger
	run       int
}

// QueryResult is the outcome of one scene query.
type QueryResult struct {
	Query  scene.Query
	OK     bool
	Report *checker.Report
}

// Result is everything produced by one evaluation.
type Result struct {
	Scene   *scene.Scene
	Queries []QueryResult
	Meshes  []*tessellate.Mesh
	Errors  []scene.EvalError
}

// NewApp wires the evaluator, solver and checker from cfg. out may be nil.
func NewApp(cfg *config.Config, out *output.Manager, logger *log.Logger) (*App, error) {
	alg, err := cfg.Checker.ParsedAlgorithm()
	if err != nil {
		return nil, err
	}
	solver, err := ccd.New(cfg.Engine.Solver())
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return &App{
		cfg: cfg,
		evaluator: scene.NewEvaluator(
			scene.WithTimeout(cfg.Scene.Timeout()),
			scene.WithLogger(logger),
		),
		checker: checker.New(
			checker.WithEngine(solver),
			checker.WithAlgorithm(alg),
			checker.WithLogger(logger),
		),
		out:    out,
		logger: logger,
	}, nil
}

// Evaluate runs source end to end.
func (a *App) Evaluate(source string) Result {
	return a.EvaluateContext(context.Background(), source)
}

// EvaluateContext evaluates source, runs every planned query, meshes the
// scene when enabled and records the results. Problems are collected in
// Result.Errors rather than returned.
func (a *App) EvaluateContext(ctx context.Context, source string) Result {
	var res Result

	sc, evalErrs, err := a.evaluator.EvaluateContext(ctx, source)
	if err != nil {
		res.Errors = append(res.Errors, scene.EvalError{Message: err.Error()})
		return res
	}
	if len(evalErrs) > 0 {
		res.Errors = evalErrs
		return res
	}
	res.Scene = sc
	a.run++

	var rows []output.ReportRow
	for _, q := range sc.PlannedQueries(a.cfg.Checker.Margin) {
		r := checker.NewReport(sc.Lookup(q.A), sc.Lookup(q.B))
		ok := a.checker.Query(q.Type, r, r.C1, r.C2, q.Margin)
		res.Queries = append(res.Queries, QueryResult{Query: q, OK: ok, Report: r})
		rows = append(rows, output.NewReportRow(a.run, q, ok, r))
	}
	a.logger.Info("scene checked", "run", a.run, "shapes", sc.Len(), "queries", len(res.Queries))

	if a.cfg.Tessellate.Enabled {
		meshes, err := tessellate.Tessellate(sc, a.cfg.Tessellate.Cells)
		if err != nil {
			a.logger.Error("tessellation failed", "err", err)
			res.Errors = append(res.Errors, scene.EvalError{Message: "tessellation failed: " + err.Error()})
		}
		res.Meshes = meshes
	}

	if a.cfg.Output.CSV {
		if err := a.out.WriteReports(rows); err != nil {
			res.Errors = append(res.Errors, scene.EvalError{Message: err.Error()})
		}
	}
	if res.Meshes != nil {
		if err := a.out.WriteMeshes(res.Meshes); err != nil {
			res.Errors = append(res.Errors, scene.EvalError{Message: err.Error()})
		}
	}
	return res
}

// printResult writes a table of query outcomes followed by any errors.
func printResult(w io.Writer, res Result) {
	for _, e := range res.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}
	if len(res.Queries) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUERY\tA\tB\tRESULT\tDISTANCE\tDIRECTION\tALGORITHM")
	for _, q := range res.Queries {
		dist, dir := "-", "-"
		if q.Report.Flags.Has(checker.FlagHaveSeparation) {
			d := q.Report.Direction
			dist = fmt.Sprintf("%.6g", q.Report.Distance)
			dir = fmt.Sprintf("(%.3g, %.3g, %.3g)", d.X, d.Y, d.Z)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\t%s\t%s\n",
			q.Query.Type, q.Query.A, q.Query.B, q.OK, dist, dir, q.Report.Algorithm)
	}
	tw.Flush()
	for _, m := range res.Meshes {
		fmt.Fprintf(w, "mesh %s: %d triangles\n", m.Shape, m.TriangleCount())
	}
}
