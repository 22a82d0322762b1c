package resolve

import (
	"strings"

	"golang.org/x/sync/errgroup"

	"easlyc/ast"
	"easlyc/common"
	"easlyc/infer"
	"easlyc/report"
	"easlyc/walk"
)

// Result summarizes a run of the scheduler.
type Result struct {
	// Diagnostics is the ordered list of diagnostics produced by the run.
	Diagnostics []*report.Diagnostic

	// Rounds is the number of rounds run for each phase reached.
	Rounds map[ast.Phase]int

	// NumberStats is the outcome of the number kind engine.  It is zero if the
	// engine did not run.
	NumberStats infer.Stats
}

// Success returns whether the run produced no error.
func (r *Result) Success() bool {
	for _, d := range r.Diagnostics {
		if d.IsError() {
			return false
		}
	}

	return true
}

// Scheduler runs the resolvers of a program phase by phase.  Within a phase,
// it runs rounds: every pending node is resolved in parallel against the state
// left by the previous round, then the resolved nodes are committed one at a
// time.  A node resolved in a round is only visible to the others in the next
// one.
type Scheduler struct {
	config   *common.Config
	reporter *report.Reporter
}

// NewScheduler creates a new scheduler.
func NewScheduler(config *common.Config, reporter *report.Reporter) *Scheduler {
	return &Scheduler{config: config, reporter: reporter}
}

// Run resolves a program.  Errors in the program are returned as diagnostics;
// the returned error is only set if the resolver itself violated a contract.
func (s *Scheduler) Run(prog *Program) (res *Result, err error) {
	defer report.CatchContract(&err)
	defer s.reporter.Finish()

	res = &Result{Rounds: make(map[ast.Phase]int)}
	w := walk.NewWalker(prog.Universe, s.config)

	for _, phase := range ast.Phases {
		s.reporter.BeginPhase(phase.String())

		ok, err := s.runPhase(w, prog, phase, res)
		if err != nil {
			return res, err
		}

		s.reporter.EndPhase(ok)
		if !ok {
			return res, nil
		}
	}

	if s.config.CheckNumberKinds {
		s.reporter.BeginPhase("Number kinds")

		engine := infer.NewEngine(prog.Universe.UserClasses(), prog.Nodes())
		engine.Restart()
		res.NumberStats = engine.Run()

		diags := infer.Validate(prog.Nodes())
		s.report(res, diags...)
		s.reporter.EndPhase(len(diags) == 0)
	}

	return res, nil
}

func (s *Scheduler) report(res *Result, diags ...*report.Diagnostic) {
	res.Diagnostics = append(res.Diagnostics, diags...)
	s.reporter.Report(diags...)
}

// runPhase runs rounds until every node owning cells in the phase is resolved
// or no round makes progress.  It returns whether the phase is complete.
func (s *Scheduler) runPhase(w *walk.Walker, prog *Program, phase ast.Phase, res *Result) (bool, error) {
	var pending []ast.Node
	for _, n := range prog.Nodes() {
		if n.Base().Record.Owns(phase) && !ast.IsResolved(n, phase) {
			pending = append(pending, n)
		}
	}

	anyFailed := false
	for len(pending) > 0 {
		if s.config.MaxRounds > 0 && res.Rounds[phase] >= s.config.MaxRounds {
			s.report(res, report.Errorf(nil, report.KindCycle, "%s phase did not complete in %d rounds", phase, s.config.MaxRounds))
			return false, nil
		}

		res.Rounds[phase]++

		outcomes, err := s.computeRound(w, pending, phase)
		if err != nil {
			return false, err
		}

		var blocked []ast.Node
		var reasons []string
		for i, out := range outcomes {
			switch out.Status {
			case walk.Resolved:
				out.Commit()
				s.report(res, out.Diagnostics...)
			case walk.Failed:
				anyFailed = true
				s.report(res, out.Diagnostics...)
			case walk.Blocked:
				blocked = append(blocked, pending[i])
				reasons = append(reasons, pending[i].Describe()+" waits for "+out.Reason)
			}
		}

		if len(blocked) == len(pending) {
			if !anyFailed {
				s.report(res, report.Errorf(
					blocked[0],
					report.KindCycle,
					"unresolvable dependency cycle in %s phase: %s",
					phase,
					strings.Join(reasons, "; "),
				))
			}

			return false, nil
		}

		pending = blocked
	}

	return !anyFailed, nil
}

// computeRound runs the resolvers of the pending nodes.  Resolvers only read
// the cells committed by previous rounds, so they run in parallel.
func (s *Scheduler) computeRound(w *walk.Walker, pending []ast.Node, phase ast.Phase) ([]walk.Outcome, error) {
	outcomes := make([]walk.Outcome, len(pending))

	g := &errgroup.Group{}
	g.SetLimit(max(s.config.Workers, 1))

	for i, n := range pending {
		g.Go(func() (err error) {
			defer report.CatchContract(&err)

			outcomes[i] = w.Resolve(n, phase)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outcomes, nil
}
