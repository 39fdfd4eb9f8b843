// Package irc implements a reentrant, incremental tokenizer for the IRC
// message grammar. A Parser is fed raw bytes in arbitrarily sized and
// arbitrarily aligned chunks and emits prefix, command and parameter tokens
// through callbacks as soon as they are complete, without the caller ever
// buffering a whole message. All parsing progress lives in the Parser value
// itself, so a stream can be suspended and resumed at any byte boundary.
package irc

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	// maxMessage is the byte ceiling for one raw message, CR LF excluded.
	maxMessage = 512

	// rawCapacity is maxMessage plus room for the terminator and a guard byte.
	rawCapacity = maxMessage + 3
)

// Callback receives one completed token. The slice aliases memory owned by
// the parser or by the caller of Execute and is only valid until the
// callback returns; copy it to retain it. Returning a non-nil error aborts
// the parse: the parser enters its error state with UserError and consumes
// no further bytes until Reset.
type Callback func(token []byte) error

// callbacks holds the bound sinks, one per token category.
type callbacks struct {
	nick    Callback
	name    Callback
	host    Callback
	command Callback
	param   Callback
	end     func() error
}

// Handler bundles the six callback categories into one value for use with
// Bind. End is invoked once per fully terminated message.
type Handler interface {
	Nick(token []byte) error
	Name(token []byte) error
	Host(token []byte) error
	Command(token []byte) error
	Param(token []byte) error
	End() error
}

// Parser is the tokenizer state for a single byte stream. One Parser must
// never be driven from two goroutines at once or shared between streams;
// distinct Parsers share nothing and may run concurrently. The zero value
// is not usable, construct with NewParser.
type Parser struct {
	state state
	kind  ErrorKind
	cause error

	length   int  // raw bytes accumulated for the in-progress message
	tokStart int  // offset in raw where the in-progress token begins
	last     byte // previously examined byte, for CR LF split across calls
	raw      [rawCapacity]byte

	cb  callbacks
	log zerolog.Logger
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithLogger attaches a logger to the parser. The parser logs only at
// debug level and only when entering an error state; the default is a
// no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Parser) {
		p.log = log.With().Str("component", "parser").Logger()
	}
}

// NewParser returns a Parser ready to consume the start of a stream. No
// callbacks are bound; tokens without a bound callback are discarded.
func NewParser(opts ...Option) *Parser {
	p := &Parser{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Reset clears all parsing progress and any error, returning the parser to
// the start-of-message state. Bound callbacks and options are preserved.
// This is the only way to resume after an error.
func (p *Parser) Reset() {
	p.state = stateInit
	p.kind = NoError
	p.cause = nil
	p.length = 0
	p.tokStart = 0
	p.last = 0
}

// OnNick binds the sink for the prefix nick token. The most recent binding
// wins; nil unbinds.
func (p *Parser) OnNick(cb Callback) { p.cb.nick = cb }

// OnName binds the sink for the prefix user token.
func (p *Parser) OnName(cb Callback) { p.cb.name = cb }

// OnHost binds the sink for the prefix host token.
func (p *Parser) OnHost(cb Callback) { p.cb.host = cb }

// OnCommand binds the sink for the command token.
func (p *Parser) OnCommand(cb Callback) { p.cb.command = cb }

// OnParam binds the sink for parameter tokens, middle and trailing alike.
func (p *Parser) OnParam(cb Callback) { p.cb.param = cb }

// OnEnd binds the sink fired after each complete message, once the line
// terminator has been consumed.
func (p *Parser) OnEnd(cb func() error) { p.cb.end = cb }

// Bind installs all six sinks from one Handler. It is equivalent to calling
// the six On* binders and follows the same latest-binding-wins rule.
func (p *Parser) Bind(h Handler) {
	p.OnNick(h.Nick)
	p.OnName(h.Name)
	p.OnHost(h.Host)
	p.OnCommand(h.Command)
	p.OnParam(h.Param)
	p.OnEnd(h.End)
}

// HasError reports whether the parser is in its error state. An errored
// parser consumes nothing until Reset.
func (p *Parser) HasError() bool { return p.state == stateError }

// ErrorKind returns the classification of the current error, NoError when
// the parser is healthy.
func (p *Parser) ErrorKind() ErrorKind { return p.kind }

// Err returns the current error as an error value, nil when the parser is
// healthy. For UserError the callback's own error is wrapped and available
// through errors.Is/errors.Unwrap alongside ErrUser.
func (p *Parser) Err() error {
	if p.kind == UserError && p.cause != nil {
		return fmt.Errorf("%w: %v", ErrUser, p.cause)
	}
	return p.kind.Err()
}

// InMessage reports whether a message has started but not yet terminated.
// It is false on a fresh or freshly reset parser, after each completed
// message, and in the error state.
func (p *Parser) InMessage() bool {
	return p.state != stateInit && p.state != stateError
}

// Length returns the number of raw bytes accumulated for the in-progress
// message, terminator excluded. Exposed for debugging and stream
// diagnostics.
func (p *Parser) Length() int { return p.length }

// accumulate appends b to the raw message storage, stopping at the length
// ceiling. It returns how many bytes fit; a short count means the ceiling
// was hit at b[n].
func (p *Parser) accumulate(b []byte) int {
	n := copy(p.raw[p.length:maxMessage], b)
	p.length += n
	return n
}

// accumulateByte appends a single byte, reporting false when the ceiling
// leaves no room for it.
func (p *Parser) accumulateByte(c byte) bool {
	if p.length >= maxMessage {
		return false
	}
	p.raw[p.length] = c
	p.length++
	return true
}

// fail moves the parser into its error state and returns pos, the index of
// the offending byte, as the Execute return value. cause is non-nil only
// for callback aborts.
func (p *Parser) fail(pos int, kind ErrorKind, cause error) int {
	p.state = stateError
	p.kind = kind
	p.cause = cause
	p.log.Debug().
		Int("offset", pos).
		Stringer("kind", kind).
		Msg("parser entered error state")
	return pos
}

// rearm readies the parser for the next message after a terminator,
// keeping callbacks and the error fields untouched.
func (p *Parser) rearm() {
	p.state = stateInit
	p.length = 0
	p.tokStart = 0
}
