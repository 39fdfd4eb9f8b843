// Package stream connects byte sources to the irc tokenizer and gathers
// token events back into whole messages. Reading, chunking, parser pooling
// and message assembly live here; the grammar itself stays in pkg/irc.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/BLAZED-sh/irc-parser/pkg/irc"
	"github.com/rs/zerolog"
)

// ErrTruncated reports a stream that ended in the middle of a message.
var ErrTruncated = errors.New("stream: input ended inside a message")

const defaultChunkSize = 4096

// Feeder pumps bytes from a reader through a single parser in bounded
// chunks, preserving the parser's incremental semantics: a message may
// begin in one read and finish many reads later. The feeder owns only the
// read buffer; the parser and its callbacks remain the caller's.
type Feeder struct {
	reader io.Reader
	parser *irc.Parser
	buf    []byte
	total  int64
	log    zerolog.Logger
}

// FeederOption configures a Feeder at construction time.
type FeederOption func(*Feeder)

// WithChunkSize sets the maximum number of bytes handed to the parser per
// read. Values below 1 are ignored; the default is 4096.
func WithChunkSize(n int) FeederOption {
	return func(f *Feeder) {
		if n > 0 {
			f.buf = make([]byte, n)
		}
	}
}

// WithLogger attaches a logger to the feeder; the default is a no-op
// logger.
func WithLogger(log zerolog.Logger) FeederOption {
	return func(f *Feeder) {
		f.log = log.With().Str("component", "feeder").Logger()
	}
}

// NewFeeder returns a Feeder that drives p with bytes read from r.
func NewFeeder(r io.Reader, p *irc.Parser, opts ...FeederOption) *Feeder {
	f := &Feeder{
		reader: r,
		parser: p,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.buf == nil {
		f.buf = make([]byte, defaultChunkSize)
	}
	return f
}

// Run reads and parses until the stream ends or something stops it. It
// returns nil on EOF at a message boundary, ErrTruncated on EOF inside a
// message, ctx.Err() on cancellation, a wrapped read error, or the
// parser's error annotated with the absolute stream offset at which the
// input was rejected. Parse errors stay classifiable with errors.Is
// against irc.ErrParse, irc.ErrLength and irc.ErrUser.
func (f *Feeder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := f.reader.Read(f.buf)
		if n > 0 {
			consumed := f.parser.Execute(f.buf[:n])
			f.total += int64(consumed)
			if consumed < n {
				perr := f.parser.Err()
				f.log.Debug().
					Int64("offset", f.total).
					Err(perr).
					Msg("input rejected")
				return fmt.Errorf("parse failed at byte %d: %w", f.total, perr)
			}
		}

		switch {
		case err == io.EOF:
			if f.parser.InMessage() {
				return fmt.Errorf("%w (after %d bytes)", ErrTruncated, f.total)
			}
			return nil
		case err != nil:
			return fmt.Errorf("read: %w", err)
		}
	}
}

// BytesConsumed returns the total number of bytes the parser has accepted
// across all reads so far.
func (f *Feeder) BytesConsumed() int64 { return f.total }
