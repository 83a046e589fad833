package catalog

// Default values for Params.
const (
	DefaultIterationCount = 10
	DefaultInputBits      = 32
)

// Params are the values shared by every case of the default catalog.
type Params struct {
	IterationCount int `validate:"gte=1"`
	InputBits      int `validate:"gte=1,lte=64"`
}

// DefaultParams returns the parameters the published measurements use.
func DefaultParams() Params {
	return Params{
		IterationCount: DefaultIterationCount,
		InputBits:      DefaultInputBits,
	}
}

// Validate checks that both values are in range.
func (p Params) Validate() error {
	return validate.Struct(p)
}

type sizing struct {
	senderSize        int
	receiverSize      int
	polyModulusDegree int
	partitionCount    int
	windowSize        int
}

// sizings are ordered by increasing sender set size; each one expands to an
// unlabeled and a labeled case.
var sizings = []sizing{
	{1 << 16, 5535, 8192, 8, 3},
	{1 << 16, 11041, 16384, 8, 2},
	{1 << 20, 5535, 8192, 64, 2},
	{1 << 20, 11041, 16384, 32, 3},
	{1 << 24, 5535, 8192, 256, 1},
	{1 << 24, 11041, 16384, 128, 2},
}

// Default builds the standard catalog from p.
func Default(p Params) Catalog {
	cases := make(Catalog, 0, 2*len(sizings))

	for _, s := range sizings {
		for _, labeled := range []bool{false, true} {
			cases = append(cases, Case{
				Labeled:           labeled,
				InputBits:         p.InputBits,
				SenderSize:        s.senderSize,
				ReceiverSize:      s.receiverSize,
				PolyModulusDegree: s.polyModulusDegree,
				PartitionCount:    s.partitionCount,
				WindowSize:        s.windowSize,
				IterationCount:    p.IterationCount,
			})
		}
	}

	return cases
}
