package work

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Processor runs every registered WorkType's subjects once per Tick,
// isolating one subject's failure from its siblings and from other work
// types -- a sweep with one bad symbol still processes the rest.
type Processor struct {
	registry *Registry
	log      zerolog.Logger
	timeout  time.Duration
}

// NewProcessor builds a Processor with the package default Timeout.
func NewProcessor(registry *Registry, log zerolog.Logger) *Processor {
	return &Processor{registry: registry, log: log, timeout: Timeout}
}

// Tick runs one sweep: every registered WorkType's FindSubjects, then
// Execute for each returned subject, each under its own timeout and retry
// budget. It returns the count of subjects processed and the first error
// encountered building the subject list for any work type (per-subject
// Execute failures are logged, not returned -- a transient provider outage
// for one symbol must never abort the sweep for the rest).
func (p *Processor) Tick(ctx context.Context) (processed int, err error) {
	for _, wt := range p.registry.All() {
		subjects, findErr := wt.FindSubjects(ctx)
		if findErr != nil {
			p.log.Error().Err(findErr).Str("work_type", wt.ID).Msg("work: FindSubjects failed")
			if err == nil {
				err = findErr
			}
			continue
		}

		for _, subject := range subjects {
			p.runOne(ctx, wt, subject)
			processed++
		}
	}
	return processed, err
}

func (p *Processor) runOne(ctx context.Context, wt *WorkType, subject string) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		itemCtx, cancel := context.WithTimeout(ctx, p.timeout)
		lastErr = wt.Execute(itemCtx, subject)
		cancel()
		if lastErr == nil {
			return
		}
		p.log.Warn().Err(lastErr).Str("work_type", wt.ID).Str("subject", subject).Int("attempt", attempt).Msg("work: execute failed")
	}
	p.log.Error().Err(lastErr).Str("work_type", wt.ID).Str("subject", subject).Msg("work: retries exhausted, skipping until next sweep")
}
