// Package extsort sorts delimited record files that may not fit in memory.
//
// The input is split into runs of at most a fixed number of records. Each run
// is sorted in memory and written to a run file. The runs are then merged with
// a heap of cursors, one per run, into a single output ordered by the integer
// key in the first field of every record. The first line of the input is a
// header and is copied to the output unchanged.
//
// Everything here runs on the calling goroutine.
package extsort
