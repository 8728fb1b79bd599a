// Package norvik is a client-side transaction execution and result-streaming
// engine for a graph database. It sequences units of work through sessions,
// retries transaction functions on transient server failures, streams query
// results lazily through single-pass cursors and chains causally dependent
// work across sessions with bookmarks.
//
// The wire protocol is not part of this package: a Connector supplies
// server connections and everything below that line is the transport's
// business.
package norvik
