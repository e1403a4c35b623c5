package block

import (
	"bytes"
	"fmt"
	"io"
)

var _ io.Writer = (*outputStack)(nil)

// outputStack is the capture mechanism behind sections, slots and view
// executions. Writes always land in the most recently pushed buffer. The
// root buffer collects output produced outside any capture and is never popped.
type outputStack struct {
	buffers []*bytes.Buffer
}

func newOutputStack() *outputStack {
	return &outputStack{buffers: []*bytes.Buffer{new(bytes.Buffer)}}
}

func (o *outputStack) Write(p []byte) (int, error) {
	return o.top().Write(p)
}

func (o *outputStack) WriteString(s string) (int, error) {
	return o.top().WriteString(s)
}

func (o *outputStack) top() *bytes.Buffer {
	return o.buffers[len(o.buffers)-1]
}

func (o *outputStack) push() *bytes.Buffer {
	buf := new(bytes.Buffer)
	o.buffers = append(o.buffers, buf)
	return buf
}

// pop removes the current capture buffer and returns what it collected.
func (o *outputStack) pop() (string, error) {
	if len(o.buffers) == 1 {
		return "", fmt.Errorf("%w: output capture underflow", ErrUnbalanced)
	}
	buf := o.top()
	o.buffers = o.buffers[:len(o.buffers)-1]
	return buf.String(), nil
}

// popTo removes the capture buffer want, which must be on top.
func (o *outputStack) popTo(want *bytes.Buffer) (string, error) {
	if o.top() != want {
		return "", fmt.Errorf("%w: output capture closed out of order", ErrUnbalanced)
	}
	return o.pop()
}

// depth counts open captures, the root buffer excluded.
func (o *outputStack) depth() int {
	return len(o.buffers) - 1
}

// truncate drops every capture opened above depth.
func (o *outputStack) truncate(depth int) {
	if depth+1 < len(o.buffers) {
		o.buffers = o.buffers[:depth+1]
	}
}

// drain returns and clears everything written to the root buffer.
func (o *outputStack) drain() string {
	root := o.buffers[0]
	s := root.String()
	root.Reset()
	return s
}

func (o *outputStack) reset() {
	o.buffers = o.buffers[:1]
	o.buffers[0].Reset()
}
