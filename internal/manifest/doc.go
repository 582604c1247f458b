// Package manifest provides in-place editing of BOSH deployment manifests.
//
// Manifests are parsed into a yaml.Node tree rather than plain maps, so key
// order, comments and scalar styles of untouched content survive a
// read-mutate-write cycle. Two edits are supported:
//
//   - Property merging: copy values at field paths from one manifest into another
//   - Job disabling: zero a job's instances and clear its static IPs
//
// # Paths
//
// Field paths use JSONPath child and index notation, with or without a
// leading "$.":
//
//	properties.consul.agent.servers.lan
//	jobs[0].networks[0].static_ips
//	properties['key.with.dots']
//
// # Errors
//
// Failures wrap one of the sentinel errors (ErrParse, ErrMissingField,
// ErrJobNotFound, ErrIndexOutOfRange, ErrTypeMismatch) and can be matched
// with errors.Is.
package manifest
