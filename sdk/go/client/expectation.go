package client

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Observed is a value read from the cluster by one observation.
// It is one of Scalar, Count, Triple, Set or Document.
type Observed interface {
	fmt.Stringer
	observed()
}

// Scalar is a single textual field.
type Scalar string

// Count is a number of matching objects.
type Count int

// Triple counts the statefulsets, pods and services of an installation.
type Triple struct {
	StatefulSets int
	Pods         int
	Services     int
}

// Set is an unordered collection of strings.
type Set []string

// Document is a structured object fragment.
type Document map[string]interface{}

func (Scalar) observed()   {}
func (Count) observed()    {}
func (Triple) observed()   {}
func (Set) observed()      {}
func (Document) observed() {}

func (s Scalar) String() string { return strconv.Quote(string(s)) }
func (n Count) String() string  { return strconv.Itoa(int(n)) }
func (t Triple) String() string {
	return fmt.Sprintf("[%d, %d, %d]", t.StatefulSets, t.Pods, t.Services)
}
func (s Set) String() string { return "[" + strings.Join(s, ", ") + "]" }
func (d Document) String() string {
	if d == nil {
		return "<absent>"
	}
	return fmt.Sprintf("%v", map[string]interface{}(d))
}

// Expectation is the value or shape a check waits for.
// Match returns a ShapeError when observed is not of the variant it compares against.
type Expectation interface {
	fmt.Stringer
	Match(observed Observed) (bool, error)
}

// Equals expects a Scalar exactly equal to value.
func Equals(value string) Expectation {
	return scalarEquals(value)
}

// AtLeast expects a Count of at least n.
func AtLeast(n int) Expectation {
	return atLeast(n)
}

// Counts expects a Triple exactly equal to t.
func Counts(t Triple) Expectation {
	return tripleEquals(t)
}

// SameSet expects a Set holding exactly items, in any order.
// Duplicates are significant.
func SameSet(items ...string) Expectation {
	return sameSet(append([]string(nil), items...))
}

// SamePorts expects a Set of container ports equal to ports, in any order.
func SamePorts(ports ...int32) Expectation {
	items := make([]string, 0, len(ports))
	for _, p := range ports {
		items = append(items, strconv.Itoa(int(p)))
	}
	return sameSet(items)
}

// ContainsAll expects a Set that includes every one of items.
func ContainsAll(items ...string) Expectation {
	return containsAll(append([]string(nil), items...))
}

// StructurallyEquals expects a Document deeply equal to doc.
func StructurallyEquals(doc Document) Expectation {
	return documentEquals{doc: doc}
}

// Diff returns a human readable diff between an expectation and an observed value,
// or an empty string when there is nothing useful to show.
func Diff(expect Expectation, observed Observed) string {
	de, ok := expect.(documentEquals)
	if !ok {
		return ""
	}
	doc, ok := observed.(Document)
	if !ok {
		return ""
	}
	if d := cmp.Diff(map[string]interface{}(de.doc), map[string]interface{}(doc)); d != "" {
		return "(-expected +observed):\n" + d
	}
	return ""
}

type scalarEquals string

func (e scalarEquals) String() string { return strconv.Quote(string(e)) }

func (e scalarEquals) Match(observed Observed) (bool, error) {
	s, ok := observed.(Scalar)
	if !ok {
		return false, &ShapeError{Expected: e, Observed: observed}
	}
	return string(s) == string(e), nil
}

type atLeast int

func (e atLeast) String() string { return fmt.Sprintf(">= %d", int(e)) }

func (e atLeast) Match(observed Observed) (bool, error) {
	n, ok := observed.(Count)
	if !ok {
		return false, &ShapeError{Expected: e, Observed: observed}
	}
	return int(n) >= int(e), nil
}

type tripleEquals Triple

func (e tripleEquals) String() string { return Triple(e).String() }

func (e tripleEquals) Match(observed Observed) (bool, error) {
	t, ok := observed.(Triple)
	if !ok {
		return false, &ShapeError{Expected: e, Observed: observed}
	}
	return t == Triple(e), nil
}

type sameSet []string

func (e sameSet) String() string { return "exactly " + Set(e).String() }

func (e sameSet) Match(observed Observed) (bool, error) {
	s, ok := observed.(Set)
	if !ok {
		return false, &ShapeError{Expected: e, Observed: observed}
	}
	if len(s) != len(e) {
		return false, nil
	}
	want := append([]string(nil), e...)
	got := append([]string(nil), s...)
	sort.Strings(want)
	sort.Strings(got)
	for i := range want {
		if want[i] != got[i] {
			return false, nil
		}
	}
	return true, nil
}

type containsAll []string

func (e containsAll) String() string { return "including " + Set(e).String() }

func (e containsAll) Match(observed Observed) (bool, error) {
	s, ok := observed.(Set)
	if !ok {
		return false, &ShapeError{Expected: e, Observed: observed}
	}
	have := make(map[string]bool, len(s))
	for _, item := range s {
		have[item] = true
	}
	for _, item := range e {
		if !have[item] {
			return false, nil
		}
	}
	return true, nil
}

type documentEquals struct {
	doc Document
}

func (e documentEquals) String() string { return e.doc.String() }

func (e documentEquals) Match(observed Observed) (bool, error) {
	d, ok := observed.(Document)
	if !ok {
		return false, &ShapeError{Expected: e, Observed: observed}
	}
	if d == nil {
		return false, nil
	}
	return cmp.Equal(map[string]interface{}(e.doc), map[string]interface{}(d)), nil
}
