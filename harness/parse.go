package harness

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/weiihann/psibench/catalog"
)

// fieldCount is the number of tab-separated fields per output line:
// sender seconds, receiver encrypt seconds, receiver decrypt seconds,
// match count.
const fieldCount = 4

var (
	// ErrFieldCount is returned for a line without exactly four fields.
	ErrFieldCount = errors.New("wrong field count")
	// ErrNegativeCount is returned for a negative match count.
	ErrNegativeCount = errors.New("negative match count")
	// ErrNotDecimal is returned for a timing field that is not a finite
	// decimal number, such as nan, inf or a hex float.
	ErrNotDecimal = errors.New("not a decimal number")
)

// ParseError reports a malformed line of benchmark output.
type ParseError struct {
	// Line is 1-based and counts blank lines.
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts benchmark output into one RunResult per non-empty line.
// The match ratio is computed against c.ReceiverSize. The number of results
// is not checked against c.IterationCount.
func Parse(output string, c catalog.Case) ([]RunResult, error) {
	if c.ReceiverSize <= 0 {
		return nil, fmt.Errorf("receiver size must be positive, got %d",
			c.ReceiverSize)
	}

	lines := strings.Split(output, "\n")
	results := make([]RunResult, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		res, err := parseLine(line, c.ReceiverSize)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: line, Err: err}
		}

		results = append(results, res)
	}

	return results, nil
}

func parseLine(line string, receiverSize int) (RunResult, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != fieldCount {
		return RunResult{}, fmt.Errorf("%w: expected %d, got %d",
			ErrFieldCount, fieldCount, len(fields))
	}

	var secs [3]float64

	for i := range secs {
		v, err := parseSeconds(fields[i])
		if err != nil {
			return RunResult{}, fmt.Errorf("invalid value %q in field %d: %w",
				fields[i], i+1, err)
		}

		secs[i] = v
	}

	matches, err := strconv.Atoi(fields[3])
	if err != nil {
		return RunResult{}, fmt.Errorf("invalid match count %q: %w",
			fields[3], err)
	}

	if matches < 0 {
		return RunResult{}, fmt.Errorf("%w: %d", ErrNegativeCount, matches)
	}

	return RunResult{
		SenderSeconds:          secs[0],
		ReceiverEncryptSeconds: secs[1],
		ReceiverDecryptSeconds: secs[2],
		Matches:                matches,
		MatchRatio:             float64(matches) / float64(receiverSize),
	}, nil
}

// parseSeconds accepts plain decimal notation with an optional sign and
// exponent. strconv.ParseFloat alone would also take nan, inf and hex floats.
func parseSeconds(s string) (float64, error) {
	if s == "" {
		return 0, ErrNotDecimal
	}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return 0, ErrNotDecimal
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotDecimal
	}

	return v, nil
}
