// Package operations runs the analysis pipeline as a linear state machine.
//
// A run moves through
//
//	start → args_validated → file_exists → table_loaded → summary_computed
//	      → output_dir_ready → files_exported → done
//
// and ends in failed, with a FailureReason, as soon as a step returns an
// error. There are no retries and no rollback.
//
// Pipeline.Step wraps each step in an OpenTelemetry span and records stage
// counters and durations through PipelineTracer. With telemetry disabled the
// tracer and meter are no-ops.
//
//	p := operations.NewPipeline(runID, tracer, logger)
//	ctx = p.Begin(ctx, input)
//	defer p.End(ctx)
//	if err := p.Step(ctx, operations.StateArgsValidated, operations.ReasonWrongArgCount, check); err != nil {
//	    return p.State().ExitCode()
//	}
package operations
