package metrics

// Metrics defines the interface for collecting application metrics.
// Services and middleware depend on this rather than on Prometheus directly.
type Metrics interface {
	IncRegistrations()
	IncUnregistrations()
	IncPlayersDeleted()
	IncAdminAuthFailures(action string)
	IncTeamSplits()
	IncMatchUpdates()
	ObserveRequestDuration(method, route string, status int, seconds float64)
}
