package history

import (
	"time"

	"github.com/helios-ai/arbiter/pkg/race"
	"github.com/helios-ai/arbiter/pkg/routing"
)

// RecordOutcome converts a finished race into a Run and enqueues it.
// Failed races record the first attempt's error kind; prompts are not
// persisted.
func (r *Recorder) RecordOutcome(id string, req routing.TaskRequest, outcome race.Outcome) {
	run := Run{
		ID:        id,
		TaskKind:  string(req.TaskKind),
		Reason:    outcome.RoutingReason,
		Success:   outcome.Succeeded(),
		Duration:  outcome.Duration.Milliseconds(),
		CreatedAt: time.Now(),
	}

	if outcome.Succeeded() {
		run.Provider = outcome.Result.Provider.Name
		run.Model = outcome.Result.Provider.Model
		run.TokensIn = outcome.Result.TokensIn
		run.TokensOut = outcome.Result.TokensOut
	} else if len(outcome.Errors) > 0 {
		run.ErrorKind = string(outcome.Errors[0].Kind)
	}

	r.Record(run)
}
