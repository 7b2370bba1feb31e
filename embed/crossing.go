package embed

// executionContext marks which side of the boundary is executing.
type executionContext int

const (
	contextNative executionContext = iota
	contextInterpreter
)

func (c executionContext) String() string {
	if c == contextInterpreter {
		return "interpreter"
	}
	return "native"
}

// Crossing is a scoped acquisition of the interpreter execution lock.
// Constructing one switches to the interpreter context; Release
// switches back. Release is idempotent so a deferred call pairs with
// any early return.
type Crossing struct {
	l        *Lifecycle
	released bool
}

// Cross enters the interpreter context.
func (l *Lifecycle) Cross() *Crossing {
	if l.trace {
		l.log.Tracef("context switch: %s -> %s", contextNative, contextInterpreter)
	}
	l.lock.Lock()
	l.ctx = contextInterpreter
	return &Crossing{l: l}
}

// Release leaves the interpreter context and releases the execution
// lock.
func (c *Crossing) Release() {
	if c.released {
		return
	}
	c.released = true
	c.l.ctx = contextNative
	c.l.lock.Unlock()
	if c.l.trace {
		c.l.log.Tracef("context switch: %s -> %s", contextInterpreter, contextNative)
	}
}

// InInterpreter reports whether execution is currently on the
// interpreter side of the boundary.
func (l *Lifecycle) InInterpreter() bool { return l.ctx == contextInterpreter }

// Call runs fn inside a crossing. The lock is released even when fn
// fails, by construction.
func (l *Lifecycle) Call(fn func() error) error {
	cr := l.Cross()
	defer cr.Release()
	return fn()
}
