package adapter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FallbackCall produces the degraded result for a function call whose
// real backend is unavailable. Math builtins are computed natively; any
// other name yields a labeled sentinel. It never fails.
func FallbackCall(lang, fn string, args []any, reason string, start time.Time) Result {
	if nums, ok := Floats(args); ok {
		if v, ok := SimulateCall(fn, nums); ok {
			return Result{
				Value:    v,
				Degraded: true,
				Reason:   reason,
				Duration: time.Since(start),
			}
		}
	}
	return Result{
		Value:    fmt.Sprintf("simulated:%s.%s(%v)", lang, fn, args),
		Degraded: true,
		Reason:   reason,
		Duration: time.Since(start),
	}
}

// FallbackExecute evaluates code as a native command pipeline when it
// parses as one; otherwise it yields a labeled sentinel. It never fails.
func FallbackExecute(lang, code, reason string, start time.Time) Result {
	if cmds, err := ParsePipeline(code); err == nil {
		if v, err := EvalPipeline(cmds); err == nil {
			return Result{
				Value:    v,
				Output:   fmt.Sprint(v),
				Degraded: true,
				Reason:   reason,
				Duration: time.Since(start),
			}
		}
	}
	return Result{
		Value:    fmt.Sprintf("simulated:%s.execute", lang),
		Degraded: true,
		Reason:   reason,
		Duration: time.Since(start),
	}
}

// ParseValue interprets captured subprocess stdout as a value: a float64
// when the trimmed output is numeric, otherwise the trimmed string.
func ParseValue(stdout string) any {
	trimmed := strings.TrimSpace(stdout)
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	return trimmed
}
