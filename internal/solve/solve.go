package solve

import (
	"fmt"

	"github.com/bartolsthoorn/gohighs/highs"

	"voltmesh/mend/internal/config"
	"voltmesh/mend/internal/logging"
	"voltmesh/mend/internal/network"
)

// Solve builds the model for n, runs HiGHS with the configured options, and
// writes the solution back onto the network. The solver's own output goes to
// logPath when set, keeping the process log and the solver log separate.
func Solve(n *network.Network, opts config.SolverOptions, logPath string, log logging.Logger) error {
	p, err := Build(n)
	if err != nil {
		return fmt.Errorf("building model: %w", err)
	}

	log.Info("solving network",
		logging.Int("variables", len(p.model.ColCosts)),
		logging.Int("balance_rows", p.balanceRows))

	solveOpts := []highs.SolveOption{highs.WithOutput(opts.Output)}
	if logPath != "" {
		solveOpts = append(solveOpts, highs.WithStringOption("log_file", logPath))
	}
	if opts.TimeLimit > 0 {
		solveOpts = append(solveOpts, highs.WithTimeLimit(opts.TimeLimit))
	}
	if opts.Threads > 0 {
		solveOpts = append(solveOpts, highs.WithThreads(opts.Threads))
	}

	sol, err := p.model.Solve(solveOpts...)
	if err != nil {
		return fmt.Errorf("running solver: %w", err)
	}
	switch {
	case sol.IsInfeasible():
		return fmt.Errorf("model is infeasible")
	case sol.IsUnbounded():
		return fmt.Errorf("model is unbounded")
	case !sol.HasSolution():
		return fmt.Errorf("solver returned no solution (status %v)", sol.Status)
	}

	p.apply(n, sol)
	log.Info("solve finished", logging.Float64("objective", sol.Objective))
	return nil
}
