package worker

// Request asks for one retention sweep. It carries no parameters beyond
// its origin; the engine reads its current settings when the sweep runs.
type Request struct {
	Trigger string // "cron" or "api"
}
