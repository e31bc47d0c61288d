// Package classify maps free-text absence reasons onto a fixed set of
// categories. Chart buckets and table badges both derive from Reason so the
// two can never disagree.
package classify

import "strings"

// Category is an absence-reason category.
type Category int

const (
	Health Category = iota
	Weather
	Fees
	Other
)

// Ordered lists the categories in their declared display order.
var Ordered = []Category{Health, Weather, Fees, Other}

// rule is one keyword-precedence step. Rules are checked in order and the
// first rule with any matching keyword wins.
type rule struct {
	category Category
	keywords []string
}

var rules = []rule{
	{Health, []string{"sick", "flu", "malaria"}},
	{Weather, []string{"weather", "rain"}},
	{Fees, []string{"fees"}},
}

// Reason classifies an absence reason by case-insensitive keyword match.
func Reason(reason string) Category {
	lower := strings.ToLower(reason)
	for _, rl := range rules {
		for _, kw := range rl.keywords {
			if strings.Contains(lower, kw) {
				return rl.category
			}
		}
	}
	return Other
}

// Label is the chart bucket name for c.
func (c Category) Label() string {
	switch c {
	case Health:
		return "Health Issues"
	case Weather:
		return "Bad Weather"
	case Fees:
		return "School Fees"
	default:
		return "Other Reasons"
	}
}

// Badge is the display tag used to style a reason in tables.
func (c Category) Badge() string {
	switch c {
	case Health:
		return "destructive"
	case Weather:
		return "secondary"
	case Fees:
		return "outline"
	default:
		return "default"
	}
}

// Slug is a short lowercase key for c, used in CSS classes and URLs.
func (c Category) Slug() string {
	switch c {
	case Health:
		return "health"
	case Weather:
		return "weather"
	case Fees:
		return "fees"
	default:
		return "other"
	}
}

// ByLabel returns the category whose Label is label.
func ByLabel(label string) (Category, bool) {
	for _, c := range Ordered {
		if c.Label() == label {
			return c, true
		}
	}
	return Other, false
}
