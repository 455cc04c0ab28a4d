// Package profiling keeps per-frame CPU timings and event counters. The
// renderer resets both at the start of every frame.
package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	counters    = make(map[string]int)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("renderer.Render")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// Count adds n to the named frame counter.
func Count(name string, n int) {
	if n == 0 {
		return
	}
	mu.Lock()
	counters[name] += n
	mu.Unlock()
}

// Counter returns the current value of a frame counter.
func Counter(name string) int {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

// ResetFrame clears timings and counters.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	clear(counters)
	mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// TopN formats the n largest frame timings.
// Example: "renderer.Render:4.2ms, cache.Program:2.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		parts = append(parts, p.name+":"+formatMs(p.dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops it for whole milliseconds.
func formatMs(d time.Duration) string {
	tenths := d.Microseconds() / 100
	s := strconv.FormatInt(tenths/10, 10)
	if frac := tenths % 10; frac != 0 {
		s += "." + strconv.FormatInt(frac, 10)
	}
	return s + "ms"
}
