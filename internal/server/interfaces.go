package server

// Server defines the lifecycle contract of the transport carrying the Weave
// protocol. The sync protocol is HTTP-only, so the single implementation
// wraps net/http, but callers only depend on run-and-shutdown semantics.
//
// Implementations are expected to block in [RunServer] until shutdown is
// requested and to release resources in [Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
