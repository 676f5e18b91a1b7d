package client

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	utiljson "k8s.io/apimachinery/pkg/util/json"
	"k8s.io/client-go/util/jsonpath"
)

// NoneValue is reported for a field that is absent, as kubectl custom-columns does.
const NoneValue = "<none>"

// Run executes kubectl with the client's kubeconfig and namespace flags prepended.
// Unless tolerated, a non-zero exit or a timeout is returned as a TransportError.
func (c *Client) Run(ctx context.Context, args []string, opts ...Option) (*Result, error) {
	options := c.options(opts)
	full := c.commandArgs(options, args)

	c.cfg.Logger.V(1).Info("Executing", "command", c.cfg.Kubectl+" "+strings.Join(full, " "))
	res, err := c.exec.Run(ctx, c.cfg.Kubectl, full, options.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", c.cfg.Kubectl, err)
	}

	if res.TimedOut && !options.TolerateTimeout {
		return res, &TransportError{Args: full, ExitCode: res.ExitCode, Output: string(res.Output), TimedOut: true}
	}
	if !res.TimedOut && res.ExitCode != 0 && !options.TolerateFailure {
		c.cfg.Logger.Info("kubectl failed", "args", strings.Join(full, " "), "exitCode", res.ExitCode, "output", string(res.Output))
		return res, &TransportError{Args: full, ExitCode: res.ExitCode, Output: string(res.Output)}
	}
	return res, nil
}

// Kubectl runs kubectl and returns its output.
func (c *Client) Kubectl(ctx context.Context, args []string, opts ...Option) ([]byte, error) {
	res, err := c.Run(ctx, args, opts...)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

func (c *Client) commandArgs(options *Options, args []string) []string {
	var full []string
	if c.cfg.Kubeconfig != "" {
		full = append(full, "--kubeconfig", c.cfg.Kubeconfig)
	}
	switch {
	case options.ClusterScoped:
	case options.AllNamespaces:
		full = append(full, "--all-namespaces")
	case options.Namespace != "":
		full = append(full, "-n", options.Namespace)
	}
	return append(full, args...)
}

// Get fetches the referenced object, or list of objects, as JSON.
func (c *Client) Get(ctx context.Context, ref ResourceRef, opts ...Option) (*unstructured.Unstructured, error) {
	if ref.Namespace != "" {
		opts = append(opts, InNamespace(ref.Namespace))
	}
	out, err := c.Kubectl(ctx, append(ref.getArgs(), "-o", "json"), opts...)
	if err != nil {
		return nil, err
	}
	return decodeObject(out)
}

// GetItems fetches the referenced objects and returns them as a slice.
// A single object get returns a one element slice.
func (c *Client) GetItems(ctx context.Context, ref ResourceRef, opts ...Option) ([]unstructured.Unstructured, error) {
	obj, err := c.Get(ctx, ref, opts...)
	if err != nil {
		return nil, err
	}
	return items(obj)
}

// GetFirst returns the first object matched by ref.
// An empty match is a MalformedResponseError.
func (c *Client) GetFirst(ctx context.Context, ref ResourceRef, opts ...Option) (*unstructured.Unstructured, error) {
	list, err := c.GetItems(ctx, ref, opts...)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, &MalformedResponseError{What: fmt.Sprintf("at least one %s", ref)}
	}
	return &list[0], nil
}

// GetTyped decodes the first object matched by ref into out.
func (c *Client) GetTyped(ctx context.Context, ref ResourceRef, out interface{}, opts ...Option) error {
	obj, err := c.GetFirst(ctx, ref, opts...)
	if err != nil {
		return err
	}
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(obj.Object, out); err != nil {
		return &MalformedResponseError{What: fmt.Sprintf("a %s object", ref.Kind), Cause: err}
	}
	return nil
}

// GetCount returns the number of objects matched by ref.
// A failing get counts as zero objects, so a kind or object that does not exist yet
// reads as absent rather than aborting the wait. Timeouts are still fatal.
// An empty namespace counts across all namespaces.
func (c *Client) GetCount(ctx context.Context, ref ResourceRef, opts ...Option) (int, error) {
	if ref.Namespace != "" {
		opts = append(opts, InNamespace(ref.Namespace))
	}
	if o := c.options(opts); o.Namespace == "" && !o.ClusterScoped {
		opts = append(opts, InAllNamespaces())
	}
	opts = append(opts, TolerateFailure())
	res, err := c.Run(ctx, append(ref.getArgs(), "-o", "json"), opts...)
	if err != nil {
		return 0, err
	}
	if res.ExitCode != 0 {
		return 0, nil
	}
	obj, err := decodeObject(res.Output)
	if err != nil {
		return 0, err
	}
	list, err := items(obj)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// CountResources counts statefulsets, pods and services matching selector.
func (c *Client) CountResources(ctx context.Context, selector string, opts ...Option) (Triple, error) {
	var counts [3]int
	for i, kind := range []string{"sts", "pod", "service"} {
		n, err := c.GetCount(ctx, ResourceRef{Kind: kind, Selector: selector}, opts...)
		if err != nil {
			return Triple{}, err
		}
		counts[i] = n
	}
	return Triple{StatefulSets: counts[0], Pods: counts[1], Services: counts[2]}, nil
}

// GetField reads one field of the first object matched by ref.
// An absent field reads as NoneValue.
func (c *Client) GetField(ctx context.Context, ref ResourceRef, path string, opts ...Option) (string, error) {
	obj, err := c.GetFirst(ctx, ref, opts...)
	if err != nil {
		return "", err
	}
	value, err := EvalJSONPath(obj.Object, path)
	if err != nil {
		return "", err
	}
	if value == "" {
		return NoneValue, nil
	}
	return value, nil
}

// GetJSONPath evaluates a JSON-path template against the object matched by ref and
// returns the first line of the result.
func (c *Client) GetJSONPath(ctx context.Context, ref ResourceRef, path string, opts ...Option) (string, error) {
	obj, err := c.Get(ctx, ref, opts...)
	if err != nil {
		return "", err
	}
	value, err := EvalJSONPath(obj.Object, path)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = value[:i]
	}
	return value, nil
}

// EvalJSONPath evaluates a kubectl style JSON-path against a decoded object.
// Both ".status.phase" and "{.status.phase}" are accepted. Absent keys print nothing.
func EvalJSONPath(obj map[string]interface{}, path string) (string, error) {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "{") {
		path = "{" + path + "}"
	}
	jp := jsonpath.New("field")
	jp.AllowMissingKeys(true)
	if err := jp.Parse(path); err != nil {
		return "", fmt.Errorf("invalid JSON-path %q: %w", path, err)
	}
	var buf bytes.Buffer
	if err := jp.Execute(&buf, obj); err != nil {
		return "", &MalformedResponseError{What: fmt.Sprintf("a value at %s", path), Cause: err}
	}
	return buf.String(), nil
}

// Apply applies a manifest file.
func (c *Client) Apply(ctx context.Context, path string, validate bool, opts ...Option) error {
	opts = append([]Option{WithTimeout(c.cfg.ApplyTimeout)}, opts...)
	_, err := c.Kubectl(ctx, []string{"apply", fmt.Sprintf("--validate=%t", validate), "-f", path}, opts...)
	return err
}

// DeleteFile deletes the objects declared in a manifest file.
func (c *Client) DeleteFile(ctx context.Context, path string, opts ...Option) error {
	opts = append([]Option{WithTimeout(c.cfg.DeleteTimeout)}, opts...)
	_, err := c.Kubectl(ctx, []string{"delete", "-f", path}, opts...)
	return err
}

// Delete deletes one named object.
func (c *Client) Delete(ctx context.Context, kind, name string, timeout time.Duration, opts ...Option) error {
	opts = append([]Option{WithTimeout(timeout)}, opts...)
	_, err := c.Kubectl(ctx, []string{"delete", kind, name}, opts...)
	return err
}

// Patch patches one named object. patchType is one of json, merge or strategic.
func (c *Client) Patch(ctx context.Context, kind, name, patchType, patch string, opts ...Option) error {
	_, err := c.Kubectl(ctx, []string{"patch", kind, name, "--type=" + patchType, "-p", patch}, opts...)
	return err
}

func decodeObject(out []byte) (*unstructured.Unstructured, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, &MalformedResponseError{What: "a JSON object"}
	}
	var m map[string]interface{}
	if err := utiljson.Unmarshal(out, &m); err != nil {
		return nil, &MalformedResponseError{What: "a JSON object", Output: string(out), Cause: err}
	}
	return &unstructured.Unstructured{Object: m}, nil
}

func items(obj *unstructured.Unstructured) ([]unstructured.Unstructured, error) {
	if !obj.IsList() {
		if _, ok := obj.Object["items"]; ok {
			return nil, &MalformedResponseError{What: "an items list"}
		}
		return []unstructured.Unstructured{*obj}, nil
	}
	list, err := obj.ToList()
	if err != nil {
		return nil, &MalformedResponseError{What: "an items list", Cause: err}
	}
	return list.Items, nil
}
