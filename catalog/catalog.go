// Package catalog defines the PSI benchmark cases run by psibench and the
// positional argument contract of the external benchmark executable.
package catalog

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Case is one fully-parameterized configuration of the external benchmark.
// Fields are listed in the order the executable expects them on its
// command line; Args is the only place that order is encoded.
type Case struct {
	Labeled           bool `json:"labeled" yaml:"labeled"`
	InputBits         int  `json:"input_bits" yaml:"input_bits" validate:"gte=1,lte=64"`
	SenderSize        int  `json:"sender_size" yaml:"sender_size" validate:"gte=1"`
	ReceiverSize      int  `json:"receiver_size" yaml:"receiver_size" validate:"gte=1"`
	PolyModulusDegree int  `json:"poly_modulus_degree" yaml:"poly_modulus_degree" validate:"gte=1"`
	PartitionCount    int  `json:"partition_count" yaml:"partition_count" validate:"gte=1"`
	WindowSize        int  `json:"window_size" yaml:"window_size" validate:"gte=1"`
	IterationCount    int  `json:"iteration_count" yaml:"iteration_count" validate:"gte=1"`
}

// Args returns the positional arguments for the benchmark executable:
// labeled, input bits, sender size, receiver size, poly modulus degree,
// partition count, window size, iteration count.
func (c Case) Args() []string {
	labeled := "0"
	if c.Labeled {
		labeled = "1"
	}

	return []string{
		labeled,
		strconv.Itoa(c.InputBits),
		strconv.Itoa(c.SenderSize),
		strconv.Itoa(c.ReceiverSize),
		strconv.Itoa(c.PolyModulusDegree),
		strconv.Itoa(c.PartitionCount),
		strconv.Itoa(c.WindowSize),
		strconv.Itoa(c.IterationCount),
	}
}

// Variant returns "labeled" or "unlabeled".
func (c Case) Variant() string {
	if c.Labeled {
		return "labeled"
	}

	return "unlabeled"
}

// Catalog is an ordered sequence of cases. Order is significant: cases are
// grouped in unlabeled/labeled pairs at increasing problem sizes.
type Catalog []Case

// Skip returns the cases starting at index n. An n at or beyond the end
// yields an empty catalog. n must not be negative.
func (c Catalog) Skip(n int) Catalog {
	if n < 0 {
		panic(fmt.Sprintf("catalog: negative skip %d", n))
	}

	if n >= len(c) {
		return Catalog{}
	}

	return c[n:]
}

// Degenerate returns the indexes of cases with a single iteration, for
// which the sample standard deviation is undefined.
func (c Catalog) Degenerate() []int {
	var idx []int

	for i, cs := range c {
		if cs.IterationCount == 1 {
			idx = append(idx, i)
		}
	}

	return idx
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every case and reports the first invalid one.
func (c Catalog) Validate() error {
	for i, cs := range c {
		if err := cs.Validate(); err != nil {
			return fmt.Errorf("case %d: %w", i, err)
		}
	}

	return nil
}

// Validate checks that all numeric parameters are in range.
func (c Case) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]

		return fmt.Errorf("invalid %s: %v (must satisfy %s=%s)",
			fe.Field(), fe.Value(), fe.Tag(), fe.Param())
	}

	return err
}
