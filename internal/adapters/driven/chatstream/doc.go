// Package chatstream decodes the backend's stream wire format into
// the domain's typed events. The transports live in the subpackages:
// backend consumes a live SSE response, replay reads recorded JSONL
// event logs for offline use and tests.
package chatstream
