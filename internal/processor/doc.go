// Package processor contains the pipeline coordination for a palabra
// session. It wires word collection, linguistic analysis, media generation,
// interactive review, and Anki export together, and owns the bounded
// concurrency of the analysis phase.
package processor
