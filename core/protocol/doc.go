// Package protocol defines the wire contract between the bridge backend
// and this consumer: the frame decoder that assembles `data: `-framed
// payload lines from raw byte chunks, the closed typed union of stream
// events, and the classifier that parses one framed payload into events.
//
// The producer does not guarantee payload-per-line atomicity against
// network chunking, so a payload that fails to parse is a recoverable
// condition: callers log it and keep consuming.
package protocol
