// Package models defines the entities that flow through a reconciliation run.
//
// All values are built once by a fetcher and never mutated afterwards:
//   - [Track] : a playlist entry reduced to title and primary artist
//   - [Table] : the single table extracted from the reference document
//   - [DocRow] : one data row of that table, addressed by column name
//   - [MatchResult] : a (track, row, score) triple at or above the threshold
//
// Nothing here is persisted; every value lives for one run.
package models
