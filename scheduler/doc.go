// Package scheduler runs the background work: periodic harvest-and-ingest
// per monitored source and on-demand asynchronous requests, over a bounded
// worker pool.
//
// This is a single-process scheduler, not a distributed one. Sources run
// on independent intervals; a repeatedly failing source slows down with
// exponential backoff up to a cap but is never dropped.
package scheduler
