// Package server exposes the state codec over HTTP. A UI client posts state
// documents to /decode/{type} and receives the canonical serialization, or
// fetches sample states from /encode/{sample}. Codec errors are reported with
// their kind, fixed message and location so that the client can point at the
// offending member.
//
// Every route records a request counter and a latency histogram in a
// VictoriaMetrics set, served at /metrics.
package server
