// Package charts turns aggregated buckets into view rows with the
// percentages and CSS classes the server-rendered charts need.
package charts

import (
	"math"

	"github.com/dalemusser/hygienedash/internal/app/system/aggregate"
	"github.com/dalemusser/hygienedash/internal/app/system/classify"
	"github.com/dalemusser/hygienedash/internal/domain/models"
)

// Slice is one absence-reason share.
type Slice struct {
	Name    string  `json:"name"`
	Value   int     `json:"value"`
	Percent float64 `json:"percent"` // share of all absences, one decimal
	Class   string  `json:"class"`
}

// Bar is one district's stacked present/absent bar.
type Bar struct {
	District     string  `json:"district"`
	Present      int     `json:"present"`
	Absent       int     `json:"absent"`
	Rate         float64 `json:"rate"`
	PresentWidth float64 `json:"-"` // percent of the widest bar
	AbsentWidth  float64 `json:"-"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Reasons converts buckets to slices. Percentages are 0 when there are no
// absences at all.
func Reasons(buckets []models.ReasonBucket) []Slice {
	total := 0
	for _, b := range buckets {
		total += b.Value
	}
	out := make([]Slice, 0, len(buckets))
	for _, b := range buckets {
		s := Slice{Name: b.Name, Value: b.Value, Class: classify.Other.Slug()}
		if c, ok := classify.ByLabel(b.Name); ok {
			s.Class = c.Slug()
		}
		if total > 0 {
			s.Percent = round1(float64(b.Value) / float64(total) * 100)
		}
		out = append(out, s)
	}
	return out
}

// Districts converts district groups to bars scaled against the largest
// group so the widest bar fills the chart.
func Districts(groups []models.DistrictAttendance) []Bar {
	widest := 0
	for _, g := range groups {
		if t := g.Present + g.Absent; t > widest {
			widest = t
		}
	}
	out := make([]Bar, 0, len(groups))
	for _, g := range groups {
		b := Bar{
			District: g.District,
			Present:  g.Present,
			Absent:   g.Absent,
			Rate:     aggregate.Rate(g.Present, g.Absent),
		}
		if widest > 0 {
			b.PresentWidth = round1(float64(g.Present) / float64(widest) * 100)
			b.AbsentWidth = round1(float64(g.Absent) / float64(widest) * 100)
		}
		out = append(out, b)
	}
	return out
}
