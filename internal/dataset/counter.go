package dataset

import "sort"

// ValueCount is a distinct value and how often it occurred.
type ValueCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Counter counts string occurrences and remembers first-seen order.
type Counter struct {
	order []string
	n     map[string]int
}

// NewCounter returns an empty counter.
func NewCounter() *Counter { return &Counter{n: map[string]int{}} }

// Add records one occurrence of v.
func (c *Counter) Add(v string) {
	if _, ok := c.n[v]; !ok {
		c.order = append(c.order, v)
	}
	c.n[v]++
}

// Len returns the number of distinct values.
func (c *Counter) Len() int { return len(c.order) }

// Distinct returns values in first-seen order.
func (c *Counter) Distinct() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Ranked returns counts sorted descending; ties keep first-seen order.
// If n > 0 the result is truncated to n entries.
func (c *Counter) Ranked(n int) []ValueCount {
	out := make([]ValueCount, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, ValueCount{Value: v, Count: c.n[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
