// Package tasks reconciles a playlist against the reference document with progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines one operation:
//
//  1. [Engine.Run] : full reconciliation
//     - Fetches the document table (exactly one table, header row from the options)
//     - Authenticates with the catalog service and fetches the playlist tracks
//     - Scores every (track, row) pair and keeps the pairs at or above the threshold
//
// The fetches run one after the other, document first. A failure in either aborts the run
// before any comparison happens.
//
// # Matching
//
// [Match] is the pure comparison step. It is a threshold filter, not an assignment:
// a track may match several rows and a row several tracks. Results are ordered by
// track, then by document row.
//
// # Progress Reporting
//
// Run accepts an optional channel of [ProgressUpdate] values. Updates use select with
// default so a slow or absent reader never blocks the run.
package tasks
