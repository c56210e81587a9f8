// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package expression

type ComparisonType int

/** ComparisonType represents the type of comparison that we want to perform. */
const (
	Equal ComparisonType = iota
	NotEqual
	GreaterThan        // A > B
	GreaterThanOrEqual // A >= B
	LessThan           // A < B
	LessThanOrEqual    // A <= B
)

// Holds judges result of Comparator (negative, zero, positive)
func (c ComparisonType) Holds(cmpResult int) bool {
	switch c {
	case Equal:
		return cmpResult == 0
	case NotEqual:
		return cmpResult != 0
	case GreaterThan:
		return cmpResult > 0
	case GreaterThanOrEqual:
		return cmpResult >= 0
	case LessThan:
		return cmpResult < 0
	case LessThanOrEqual:
		return cmpResult <= 0
	default:
		panic("illegal comparisonType is passed!")
	}
}

// Flip returns operator which keeps meaning when both sides are swapped
func (c ComparisonType) Flip() ComparisonType {
	switch c {
	case GreaterThan:
		return LessThan
	case GreaterThanOrEqual:
		return LessThanOrEqual
	case LessThan:
		return GreaterThan
	case LessThanOrEqual:
		return GreaterThanOrEqual
	default:
		return c
	}
}

func (c ComparisonType) IsRange() bool {
	return c != Equal && c != NotEqual
}

func (c ComparisonType) String() string {
	switch c {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	}
	return "?"
}
