package stream

import (
	"sync"

	"github.com/BLAZED-sh/irc-parser/pkg/irc"
)

// Pool is a bounded free list of reusable parsers. Get hands out a parser
// for exclusive use, Put resets it and returns it; a full pool drops the
// parser instead. Safe for concurrent use, the parsers themselves are not
// shared.
type Pool struct {
	mu    sync.Mutex
	free  []*irc.Parser
	size  int
	build func() *irc.Parser
}

// NewPool returns a Pool retaining at most size parsers. build runs for
// every Get that finds the free list empty.
func NewPool(size int, build func() *irc.Parser) *Pool {
	return &Pool{
		free:  make([]*irc.Parser, 0, size),
		size:  size,
		build: build,
	}
}

// Get returns a parser in its initial state.
func (p *Pool) Get() *irc.Parser {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		parser := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return parser
	}
	p.mu.Unlock()
	return p.build()
}

// Put resets parser and returns it to the free list. Callbacks bound to
// the parser survive the reset, so pooled parsers are typically rebound by
// their next user.
func (p *Pool) Put(parser *irc.Parser) {
	parser.Reset()
	p.mu.Lock()
	if len(p.free) < p.size {
		p.free = append(p.free, parser)
	}
	p.mu.Unlock()
}

// Free returns how many parsers are currently pooled.
func (p *Pool) Free() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
