// Package memory is the in-memory keyspace behind the RESP server.
//
// Keys map to one of five value types: strings, lists, hashes, sets and
// sorted sets. The keyspace is partitioned into shards of a cmap.Map; every
// mutation of a key runs under its shard's write lock and every read under
// its read lock, so single-key operations are atomic and operations on
// different shards proceed in parallel.
//
// Expiry:
//
// A key may carry an absolute expiry time. An expired key is absent for
// every operation. It is removed on first touch and by Sweep, which
// RunSweeper calls on a ticker.
//
// Types:
//
// An operation on a key that holds another type fails with
// domain.ErrWrongType and leaves the key untouched. Missing keys are not
// errors; they read as empty. Lists, hashes, sets and sorted sets that
// become empty are removed.
package memory
