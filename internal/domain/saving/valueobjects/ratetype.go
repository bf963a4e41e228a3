package valueobjects

import "strings"

// RateType selects how interest accrues over the schedule.
type RateType string

const (
	RateTypeSimple   RateType = "simple"
	RateTypeCompound RateType = "compound"
)

// ParseRateType maps a catalog label to a RateType. Any label mentioning
// "compound" selects compound interest; everything else, including an
// empty label, is simple.
func ParseRateType(label string) RateType {
	if strings.Contains(strings.ToLower(label), "compound") {
		return RateTypeCompound
	}
	return RateTypeSimple
}

func (r RateType) String() string {
	return string(r)
}

func (r RateType) IsCompound() bool {
	return r == RateTypeCompound
}
