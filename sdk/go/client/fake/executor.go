// Package fake provides a scripted client.Executor and a recording sleeper for tests.
//
// Responses are keyed by the kubectl arguments joined with single spaces, exactly as
// the client builds them, e.g. "-n test get sts -l clickhouse.altinity.com/chi=demo -o json".
package fake

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/LogicIQ/chicheck/sdk/go/client"
)

// Executor returns scripted results. Each key holds a queue of results; the last
// result of a queue repeats once the queue is drained.
type Executor struct {
	mu        sync.Mutex
	responses map[string][]*client.Result
	calls     []string
	timeouts  []time.Duration
}

// NewExecutor returns an Executor with no scripted responses.
func NewExecutor() *Executor {
	return &Executor{responses: map[string][]*client.Result{}}
}

// On scripts the results returned for args, in order.
func (e *Executor) On(args string, results ...*client.Result) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[args] = append(e.responses[args], results...)
	return e
}

// Run implements client.Executor.
func (e *Executor) Run(_ context.Context, _ string, args []string, timeout time.Duration) (*client.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := strings.Join(args, " ")
	e.calls = append(e.calls, key)
	e.timeouts = append(e.timeouts, timeout)

	queue, ok := e.responses[key]
	if !ok || len(queue) == 0 {
		return nil, fmt.Errorf("fake: no scripted response for %q", key)
	}
	res := queue[0]
	if len(queue) > 1 {
		e.responses[key] = queue[1:]
	}
	return res, nil
}

// Calls returns every invocation seen so far.
func (e *Executor) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// CallCount returns how often args was invoked.
func (e *Executor) CallCount(args string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, call := range e.calls {
		if call == args {
			n++
		}
	}
	return n
}

// LastTimeout returns the timeout passed with the most recent invocation.
func (e *Executor) LastTimeout() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.timeouts) == 0 {
		return 0
	}
	return e.timeouts[len(e.timeouts)-1]
}

// OK is a successful result with the given output.
func OK(output string) *client.Result {
	return &client.Result{Output: []byte(output)}
}

// Fail is a result with a non-zero exit code.
func Fail(code int, output string) *client.Result {
	return &client.Result{ExitCode: code, Output: []byte(output)}
}

// TimedOut is a result of a command killed after its timeout.
func TimedOut() *client.Result {
	return &client.Result{ExitCode: -1, TimedOut: true}
}

// JSON is a successful result whose output is obj encoded as JSON.
func JSON(obj interface{}) *client.Result {
	data, err := json.Marshal(obj)
	if err != nil {
		panic(err)
	}
	return &client.Result{Output: data}
}

// List is a successful result whose output is a v1 List of objs.
func List(objs ...interface{}) *client.Result {
	if objs == nil {
		objs = []interface{}{}
	}
	return JSON(map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "List",
		"items":      objs,
	})
}

// Sleeper records requested delays without blocking.
type Sleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

// Sleep implements client.SleepFunc.
func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return ctx.Err()
}

// Delays returns every recorded delay.
func (s *Sleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// Total returns the sum of every recorded delay.
func (s *Sleeper) Total() time.Duration {
	var total time.Duration
	for _, d := range s.Delays() {
		total += d
	}
	return total
}

// NewClient returns a client in namespace ns wired to exec and a recording sleeper.
func NewClient(exec *Executor, ns string) (*client.Client, *Sleeper) {
	sleeper := &Sleeper{}
	c := client.NewWithExecutor(&client.Config{
		Namespace: ns,
		Sleep:     sleeper.Sleep,
	}, exec)
	return c, sleeper
}
