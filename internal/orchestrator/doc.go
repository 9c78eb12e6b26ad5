// Package orchestrator drives repeated CloverLeaf trials through a fixed
// per-iteration cycle:
//
//	Idle -> Preparing(i) -> Executing(i) -> Collecting(i) -> Archiving(i)
//	     -> Preparing(i+1) | Halted | Completed
//
// Iterations run strictly sequentially. The working directory of the
// external binary is a single-writer resource: each iteration must drain it
// (via the collector's move semantics and the archiver's residue cleanup)
// before the next one starts, otherwise stale files from iteration k would
// contaminate iteration k+1.
//
// The first failure halts the whole plan. There is no retry: a failed
// iteration leaves its raw files in the working directory so the operator
// can investigate before re-invoking.
//
//	ws, _ := workspace.New("")
//	orch := orchestrator.New(ws, runner.NewExecutor(ws, logger), logger)
//	sum, err := orch.Run(ctx, orchestrator.Plan{
//	    Iterations: 3,
//	    Config:     *deck.DefaultConfig(),
//	})
package orchestrator
