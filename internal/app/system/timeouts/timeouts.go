// Package timeouts provides centralized timeout values for external calls.
//
// Every Mongo operation and gateway call runs under a context deadline drawn
// from one of these tiers, so a hung external call stalls only the event
// that issued it.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or lookups
//   - Medium: moderate writes, multi-step reads
//   - Long: a full event handler invocation
//   - Batch: the startup role backfill over a whole guild
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
	batch  = 10 * time.Minute
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for simple single-document operations.
func Short() time.Duration { return short }

// Medium returns the timeout for moderate multi-step operations.
func Medium() time.Duration { return medium }

// Long returns the timeout applied to one event handler invocation.
func Long() time.Duration { return long }

// Batch returns the timeout for the per-guild startup backfill, which
// deliberately paces itself with inter-assignment delays.
func Batch() time.Duration { return batch }
