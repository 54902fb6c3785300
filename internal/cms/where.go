package cms

import (
	"net/url"
	"strconv"
)

// Op is a comparison operator of the CMS query language.
type Op string

const (
	OpEquals   Op = "equals"
	OpIn       Op = "in"
	OpContains Op = "contains"
)

// Condition constrains a single field.
type Condition struct {
	Field string
	Op    Op
	Value string
	List  []string // used by OpIn
}

// Where is a conjunction of conditions, optionally with nested or/and groups.
type Where struct {
	Conditions []Condition
	Or         []Where
	And        []Where
}

// Equals returns a single-condition clause.
func Equals(field, value string) Where {
	return Where{Conditions: []Condition{{Field: field, Op: OpEquals, Value: value}}}
}

// In returns a membership clause.
func In(field string, values ...string) Where {
	return Where{Conditions: []Condition{{Field: field, Op: OpIn, List: values}}}
}

// Contains returns a substring clause.
func Contains(field, value string) Where {
	return Where{Conditions: []Condition{{Field: field, Op: OpContains, Value: value}}}
}

// AnyOf builds a disjunction.
func AnyOf(clauses ...Where) Where {
	return Where{Or: clauses}
}

// AllOf builds a conjunction.
func AllOf(clauses ...Where) Where {
	return Where{And: clauses}
}

// IsZero reports whether the clause constrains nothing.
func (w Where) IsZero() bool {
	return len(w.Conditions) == 0 && len(w.Or) == 0 && len(w.And) == 0
}

// Lookup returns the first top-level condition on field.
func (w Where) Lookup(field string) (Condition, bool) {
	for _, c := range w.Conditions {
		if c.Field == field {
			return c, true
		}
	}
	return Condition{}, false
}

func (w Where) encode(prefix string, v url.Values) {
	for _, c := range w.Conditions {
		key := prefix + "[" + c.Field + "][" + string(c.Op) + "]"
		if c.Op == OpIn {
			for i, item := range c.List {
				v.Add(key+"["+strconv.Itoa(i)+"]", item)
			}
			continue
		}
		v.Add(key, c.Value)
	}
	for i, sub := range w.Or {
		sub.encode(prefix+"[or]["+strconv.Itoa(i)+"]", v)
	}
	for i, sub := range w.And {
		sub.encode(prefix+"[and]["+strconv.Itoa(i)+"]", v)
	}
}

// Query is a find request against a collection.
type Query struct {
	Where Where
	Limit int
	All   bool // disable pagination
	Page  int
	Sort  string
	Depth int
}

// Values encodes the query in the bracketed form the REST API parses.
func (q Query) Values() url.Values {
	v := url.Values{}
	q.Where.encode("where", v)
	switch {
	case q.All:
		v.Set("limit", "0")
		v.Set("pagination", "false")
	case q.Limit > 0:
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Depth > 0 {
		v.Set("depth", strconv.Itoa(q.Depth))
	}
	return v
}
