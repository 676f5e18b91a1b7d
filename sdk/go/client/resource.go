package client

import "strings"

// ResourceRef identifies the objects a check reads.
// Name and Selector are both optional; with neither set every object of Kind is matched.
type ResourceRef struct {
	Kind      string
	Name      string
	Selector  string
	Namespace string
}

func (r ResourceRef) String() string {
	var b strings.Builder
	b.WriteString(r.Kind)
	if r.Name != "" {
		b.WriteString("/")
		b.WriteString(r.Name)
	}
	if r.Selector != "" {
		b.WriteString(" -l ")
		b.WriteString(r.Selector)
	}
	if r.Namespace != "" {
		b.WriteString(" in ")
		b.WriteString(r.Namespace)
	}
	return b.String()
}

// getArgs returns the kubectl get arguments for the reference, without output flags.
func (r ResourceRef) getArgs() []string {
	args := []string{"get", r.Kind}
	if r.Name != "" {
		args = append(args, r.Name)
	}
	if r.Selector != "" {
		args = append(args, "-l", r.Selector)
	}
	return args
}
