// Package hornq synthesizes qualifier predicates for a Horn-clause
// constraint solver by unrolling the clause graph to a finite depth,
// querying a Craig-interpolating SMT backend, and extracting qualifiers
// from the returned tree interpolants.
package hornq

import (
	"fmt"

	"github.com/go-air/hornq/horn"
	"github.com/go-air/hornq/quals"
	"github.com/go-air/hornq/skeleton"
	"github.com/go-air/hornq/smt"
	"github.com/go-air/hornq/terms"
	"github.com/go-air/hornq/unroll"
)

// PhaseError names the failing pipeline phase and the offending entity.
type PhaseError struct {
	Phase  string
	Entity string
	Err    error
}

func (e *PhaseError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("%s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Phase, e.Entity, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

func phaseErr(phase, entity string, err error) error {
	return &PhaseError{Phase: phase, Entity: entity, Err: err}
}

type config struct {
	backend    smt.Backend
	solverPath string
	logPath    string
	prune      bool
	solver     *smt.Solver
}

// Option configures an inference run.
type Option func(*config)

// WithBackend selects the interpolating backend; z3 by default.
func WithBackend(b smt.Backend) Option {
	return func(c *config) { c.backend = b }
}

// WithSolverPath overrides the backend executable path.
func WithSolverPath(path string) Option {
	return func(c *config) { c.solverPath = path }
}

// WithLogFile mirrors the SMT dialogue to the named file.
func WithLogFile(path string) Option {
	return func(c *config) { c.logPath = path }
}

// WithPrune drops tree queries whose propositional skeleton is
// unsatisfiable before they reach the backend.
func WithPrune(on bool) Option {
	return func(c *config) { c.prune = on }
}

// WithSolver supplies an already-attached solver dialogue instead of
// spawning one.
func WithSolver(s *smt.Solver) Option {
	return func(c *config) { c.solver = s }
}

// Infer produces a deduplicated qualifier sequence for the constraint
// record. Each invocation unrolls from scratch to the given depth. On
// failure no partial qualifier output is returned.
func Infer(fi *horn.FInfo, depth int, opts ...Option) ([]quals.Qualifier, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	cls, err := horn.Normalize(fi)
	if err != nil {
		return nil, phaseErr("normalize", "", err)
	}

	st := unroll.NewState(cls.SymSorts)
	var trees []*unroll.Node
	for i := range cls.Queries {
		root, err := st.Unroll(cls.Queries[i], cls.KCs, depth)
		if err != nil {
			return nil, phaseErr("unroll", fmt.Sprintf("query %d", i), err)
		}
		qs := unroll.Expand(root)
		if cfg.prune {
			qs = skeleton.Prune(qs)
		}
		trees = append(trees, qs...)
	}

	solver := cfg.solver
	if solver == nil {
		var sopts []smt.Option
		if cfg.solverPath != "" {
			sopts = append(sopts, smt.WithPath(cfg.solverPath))
		}
		if cfg.logPath != "" {
			sopts = append(sopts, smt.WithLogFile(cfg.logPath))
		}
		solver, err = smt.New(cfg.backend, sopts...)
		if err != nil {
			return nil, phaseErr("smt", cfg.backend.String(), err)
		}
		defer solver.Close()
	}

	all := make(map[terms.Symbol]terms.Sort, len(cls.SymSorts)+len(st.Created))
	for s, so := range cls.SymSorts {
		all[s] = so
	}
	for s, so := range st.Created {
		all[s] = so
	}
	if err := solver.DeclareAll(all); err != nil {
		return nil, phaseErr("smt", "declarations", err)
	}

	sol := quals.Solution{}
	for i, tree := range trees {
		interps, err := solver.Interpolate(tree.Formula(), tree.Cuts())
		if err != nil {
			return nil, phaseErr("smt", fmt.Sprintf("tree query %d", i), err)
		}
		ti, err := tree.WithInterps(interps)
		if err != nil {
			return nil, phaseErr("smt", fmt.Sprintf("tree query %d", i), err)
		}
		quals.Extract(ti, st, sol)
	}

	return quals.FromSolution(sol, cls.SymSorts, cls.KSorts), nil
}
