package locrecon

import "time"

// StageHook is called after each retrieval stage with the stage name
// ("suggest", "didyoumean", "scrape"), its outcome ("hit", "empty",
// "error") and how long it took. Hooks run on the query's goroutine and
// must be safe for concurrent use.
type StageHook func(stage, outcome string, elapsed time.Duration)

// stageHooks fans one stage observation out to every registered hook.
type stageHooks []StageHook

// ObserveStage implements authority.Observer.
func (h stageHooks) ObserveStage(stage, outcome string, elapsed time.Duration) {
	for _, fn := range h {
		fn(stage, outcome, elapsed)
	}
}
