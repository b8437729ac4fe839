package adapter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Op identifies one operation in the closed command language. Snippets
// handed to Execute are parsed into this set and dispatched through a
// switch; there is no arbitrary code evaluation in the host process.
type Op int

const (
	OpSum Op = iota
	OpMean
	OpSort
	OpSquare
	OpEvens
	OpOdds
	OpSqrt
	OpPow
	OpSin
	OpCos
	OpAbs
	OpUpper
	OpLower
	OpTitle
	OpSplit
	OpJoin
	OpReverse
	OpLen
)

var opNames = map[string]Op{
	"sum":     OpSum,
	"mean":    OpMean,
	"sort":    OpSort,
	"square":  OpSquare,
	"evens":   OpEvens,
	"odds":    OpOdds,
	"sqrt":    OpSqrt,
	"pow":     OpPow,
	"sin":     OpSin,
	"cos":     OpCos,
	"abs":     OpAbs,
	"upper":   OpUpper,
	"lower":   OpLower,
	"title":   OpTitle,
	"split":   OpSplit,
	"join":    OpJoin,
	"reverse": OpReverse,
	"len":     OpLen,
}

// Command is one parsed pipeline stage.
type Command struct {
	Op   Op
	Args []string
}

// ParsePipeline parses a snippet of the command language: stages separated
// by '|', each stage a verb followed by space-separated arguments. Later
// stages consume the previous stage's value.
func ParsePipeline(code string) ([]Command, error) {
	var cmds []Command
	for _, stage := range strings.Split(code, "|") {
		fields := strings.Fields(stage)
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty pipeline stage in %q", code)
		}
		op, ok := opNames[strings.ToLower(fields[0])]
		if !ok {
			return nil, fmt.Errorf("unknown command %q", fields[0])
		}
		cmds = append(cmds, Command{Op: op, Args: fields[1:]})
	}
	return cmds, nil
}

// EvalPipeline runs a parsed pipeline and returns the final value: a
// float64, []float64, string, or []string depending on the last stage.
func EvalPipeline(cmds []Command) (any, error) {
	var value any
	for i, cmd := range cmds {
		v, err := evalCommand(cmd, value, i > 0)
		if err != nil {
			return nil, err
		}
		value = v
	}
	return value, nil
}

func evalCommand(cmd Command, piped any, hasPiped bool) (any, error) {
	switch cmd.Op {
	case OpSum, OpMean, OpSort, OpSquare, OpEvens, OpOdds:
		nums, err := commandFloats(cmd, piped, hasPiped)
		if err != nil {
			return nil, err
		}
		switch cmd.Op {
		case OpSum:
			var total float64
			for _, n := range nums {
				total += n
			}
			return total, nil
		case OpMean:
			if len(nums) == 0 {
				return 0.0, nil
			}
			var total float64
			for _, n := range nums {
				total += n
			}
			return total / float64(len(nums)), nil
		case OpSort:
			out := append([]float64(nil), nums...)
			sort.Float64s(out)
			return out, nil
		case OpSquare:
			out := make([]float64, len(nums))
			for i, n := range nums {
				out[i] = n * n
			}
			return out, nil
		case OpEvens, OpOdds:
			wantEven := cmd.Op == OpEvens
			var out []float64
			for _, n := range nums {
				if (math.Mod(n, 2) == 0) == wantEven {
					out = append(out, n)
				}
			}
			return out, nil
		}

	case OpSqrt, OpSin, OpCos, OpAbs:
		nums, err := commandFloats(cmd, piped, hasPiped)
		if err != nil {
			return nil, err
		}
		if len(nums) != 1 {
			return nil, fmt.Errorf("command wants one number, got %d", len(nums))
		}
		switch cmd.Op {
		case OpSqrt:
			return math.Sqrt(nums[0]), nil
		case OpSin:
			return math.Sin(nums[0]), nil
		case OpCos:
			return math.Cos(nums[0]), nil
		case OpAbs:
			return math.Abs(nums[0]), nil
		}

	case OpPow:
		nums, err := commandFloats(cmd, piped, hasPiped)
		if err != nil {
			return nil, err
		}
		if len(nums) != 2 {
			return nil, fmt.Errorf("pow wants base and exponent, got %d args", len(nums))
		}
		return math.Pow(nums[0], nums[1]), nil

	case OpUpper, OpLower, OpTitle, OpReverse:
		text, err := commandText(cmd, piped, hasPiped)
		if err != nil {
			return nil, err
		}
		switch cmd.Op {
		case OpUpper:
			return strings.ToUpper(text), nil
		case OpLower:
			return strings.ToLower(text), nil
		case OpTitle:
			return titleCase(text), nil
		case OpReverse:
			runes := []rune(text)
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return string(runes), nil
		}

	case OpSplit:
		text, err := commandText(cmd, piped, hasPiped)
		if err != nil {
			return nil, err
		}
		return strings.Fields(text), nil

	case OpJoin:
		if len(cmd.Args) == 0 {
			return nil, fmt.Errorf("join wants a separator")
		}
		words, err := commandWords(cmd.Args[1:], piped, hasPiped)
		if err != nil {
			return nil, err
		}
		return strings.Join(words, cmd.Args[0]), nil

	case OpLen:
		switch v := piped.(type) {
		case []float64:
			return float64(len(v)), nil
		case []string:
			return float64(len(v)), nil
		case string:
			return float64(len(v)), nil
		}
		text, err := commandText(cmd, piped, hasPiped)
		if err != nil {
			return nil, err
		}
		return float64(len(text)), nil
	}

	return nil, fmt.Errorf("unhandled command op %d", cmd.Op)
}

func commandFloats(cmd Command, piped any, hasPiped bool) ([]float64, error) {
	if len(cmd.Args) > 0 {
		return parseFloats(cmd.Args)
	}
	if hasPiped {
		switch v := piped.(type) {
		case []float64:
			return v, nil
		case float64:
			return []float64{v}, nil
		case []string:
			return parseFloats(v)
		}
	}
	return nil, fmt.Errorf("command wants numbers")
}

func commandText(cmd Command, piped any, hasPiped bool) (string, error) {
	if len(cmd.Args) > 0 {
		return strings.Join(cmd.Args, " "), nil
	}
	if hasPiped {
		switch v := piped.(type) {
		case string:
			return v, nil
		case []string:
			return strings.Join(v, " "), nil
		}
	}
	return "", fmt.Errorf("command wants text")
}

func commandWords(args []string, piped any, hasPiped bool) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if hasPiped {
		switch v := piped.(type) {
		case []string:
			return v, nil
		case string:
			return strings.Fields(v), nil
		}
	}
	return nil, fmt.Errorf("command wants words")
}

func parseFloats(args []string) ([]float64, error) {
	nums := make([]float64, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", a)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// SimulateCall computes a named math builtin natively. It backs the
// fail-open path of the external facades; ok is false when the name is
// not simulatable.
func SimulateCall(fn string, args []float64) (float64, bool) {
	switch strings.ToLower(fn) {
	case "sqrt":
		if len(args) == 1 {
			return math.Sqrt(args[0]), true
		}
	case "sin":
		if len(args) == 1 {
			return math.Sin(args[0]), true
		}
	case "cos":
		if len(args) == 1 {
			return math.Cos(args[0]), true
		}
	case "abs":
		if len(args) == 1 {
			return math.Abs(args[0]), true
		}
	case "floor":
		if len(args) == 1 {
			return math.Floor(args[0]), true
		}
	case "ceil":
		if len(args) == 1 {
			return math.Ceil(args[0]), true
		}
	case "pow":
		if len(args) == 2 {
			return math.Pow(args[0], args[1]), true
		}
	case "sum":
		var total float64
		for _, a := range args {
			total += a
		}
		return total, true
	case "mean":
		if len(args) == 0 {
			return 0, true
		}
		var total float64
		for _, a := range args {
			total += a
		}
		return total / float64(len(args)), true
	}
	return 0, false
}

// Floats coerces a call argument list to float64s; ok is false when any
// argument is non-numeric.
func Floats(args []any) ([]float64, bool) {
	nums := make([]float64, 0, len(args))
	for _, a := range args {
		switch v := a.(type) {
		case float64:
			nums = append(nums, v)
		case float32:
			nums = append(nums, float64(v))
		case int:
			nums = append(nums, float64(v))
		case int64:
			nums = append(nums, float64(v))
		case string:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, false
			}
			nums = append(nums, n)
		default:
			return nil, false
		}
	}
	return nums, true
}
