package irc

// state is the parser's position in the message grammar. The zero value is
// stateInit so a reset parser is ready for the start of a message.
type state uint8

const (
	stateInit state = iota
	stateNick
	stateName
	stateHost
	stateCommand
	stateParams
	stateTrailing
	stateEnd
	stateError
)

// Stop tables, one per accumulating state. A true entry ends the current
// token run and hands the byte back to the state switch, which either
// performs the transition or rejects the byte. Prefix and command tokens
// stop on any control byte or DEL; middle and trailing parameters only on
// the bytes the grammar makes structural there, so CTCP and formatting
// codes pass through.
var (
	nickStop     [256]bool
	nameStop     [256]bool
	hostStop     [256]bool
	commandStop  [256]bool
	middleStop   [256]bool
	trailingStop [256]bool
)

func init() {
	for _, t := range []*[256]bool{&nickStop, &nameStop, &hostStop, &commandStop} {
		for c := 0; c < 0x20; c++ {
			t[c] = true
		}
		t[0x7f] = true
		t[' '] = true
	}
	nickStop['!'] = true
	nickStop['@'] = true
	nameStop['@'] = true

	for _, t := range []*[256]bool{&middleStop, &trailingStop} {
		t[0x00] = true
		t['\r'] = true
		t['\n'] = true
	}
	middleStop[' '] = true
}

// scanToken returns the index of the first byte at or after from that stop
// marks as ending the current run, or len(data) when the run covers the
// rest of the chunk.
func scanToken(data []byte, from int, stop *[256]bool) int {
	for i := from; i < len(data); i++ {
		if stop[data[i]] {
			return i
		}
	}
	return len(data)
}

// emit hands a completed token to cb. The token is data[mark:i] when it
// began inside this chunk; a token that began in an earlier call is handed
// out of the accumulated raw bytes instead. Nothing is emitted for an
// unbound category.
func (p *Parser) emit(cb Callback, data []byte, mark, i int) error {
	if cb == nil {
		return nil
	}
	if mark >= 0 {
		return cb(data[mark:i])
	}
	return cb(p.raw[p.tokStart:p.length])
}

// Execute feeds the parser the next chunk of the stream and returns how
// many bytes it consumed. Consuming the whole chunk means no error, even
// when a message is still in progress at the end of it; any shorter count
// means the parser stopped at that offset and HasError, ErrorKind and Err
// describe why. A parser already in the error state consumes nothing until
// Reset. Callbacks fire inline, in byte order.
//
// The grammar, terminator included:
//
//	message  = [ ":" prefix space ] command [ params ] crlf
//	prefix   = nick [ "!" user ] [ "@" host ]
//	params   = *( space middle ) [ space ":" trailing ]
func (p *Parser) Execute(data []byte) int {
	if p.state == stateError {
		return 0
	}

	// mark is where the in-progress token starts inside data, or -1 when
	// the token began in an earlier call and its opening bytes exist only
	// in raw. Tokens with mark >= 0 reach callbacks as subslices of data.
	mark := 0
	if p.length > p.tokStart {
		mark = -1
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
	reswitch:
		switch p.state {
		case stateInit:
			if c == ':' {
				if !p.accumulateByte(c) {
					return p.fail(i, LengthError, nil)
				}
				p.tokStart = p.length
				mark = i + 1
				p.state = stateNick
				break
			}
			// No prefix marker, the byte already belongs to the command.
			mark = i
			p.state = stateCommand
			goto reswitch

		case stateNick:
			switch c {
			case '!':
				if err := p.emit(p.cb.nick, data, mark, i); err != nil {
					return p.fail(i, UserError, err)
				}
				if !p.accumulateByte(c) {
					return p.fail(i, LengthError, nil)
				}
				p.tokStart = p.length
				mark = i + 1
				p.state = stateName
			case '@':
				if err := p.emit(p.cb.nick, data, mark, i); err != nil {
					return p.fail(i, UserError, err)
				}
				if !p.accumulateByte(c) {
					return p.fail(i, LengthError, nil)
				}
				p.tokStart = p.length
				mark = i + 1
				p.state = stateHost
			case ' ':
				if err := p.emit(p.cb.nick, data, mark, i); err != nil {
					return p.fail(i, UserError, err)
				}
				if !p.accumulateByte(c) {
					return p.fail(i, LengthError, nil)
				}
				p.tokStart = p.length
				mark = i + 1
				p.state = stateCommand
			default:
				if nickStop[c] {
					return p.fail(i, ParseError, nil)
				}
				j := scanToken(data, i, &nickStop)
				if n := p.accumulate(data[i:j]); n < j-i {
					return p.fail(i+n, LengthError, nil)
				}
				i = j - 1
			}

		case stateName:
			switch c {
			case '@':
				if err := p.emit(p.cb.name, data, mark, i); err != nil {
					return p.fail(i, UserError, err)
				}
				if !p.accumulateByte(c) {
					return p.fail(i, LengthError, nil)
				}
				p.tokStart = p.length
				mark = i + 1
				p.state = stateHost
			case ' ':
				if err := p.emit(p.cb.name, data, mark, i); err != nil {
					return p.fail(i, UserError, err)
				}
				if !p.accumulateByte(c) {
					return p.fail(i, LengthError, nil)
				}
				p.tokStart = p.length
				mark = i + 1
				p.state = stateCommand
			default:
				if nameStop[c] {
					return p.fail(i, ParseError, nil)
				}
				j := scanToken(data, i, &nameStop)
				if n := p.accumulate(data[i:j]); n < j-i {
					return p.fail(i+n, LengthError, nil)
				}
				i = j - 1
			}

		case stateHost:
			switch c {
			case ' ':
				if err := p.emit(p.cb.host, data, mark, i); err != nil {
					return p.fail(i, UserError, err)
				}
				if !p.accumulateByte(c) {
					return p.fail(i, LengthError, nil)
				}
				p.tokStart = p.length
				mark = i + 1
				p.state = stateCommand
			default:
				if hostStop[c] {
					return p.fail(i, ParseError, nil)
				}
				j := scanToken(data, i, &hostStop)
				if n := p.accumulate(data[i:j]); n < j-i {
					return p.fail(i+n, LengthError, nil)
				}
				i = j - 1
			}

		case stateCommand:
			switch c {
			case ' ':
				// A message must carry a command token; a prefix followed
				// by nothing, or a doubled separator, is malformed.
				if p.length == p.tokStart {
					return p.fail(i, ParseError, nil)
				}
				if err := p.emit(p.cb.command, data, mark, i); err != nil {
					return p.fail(i, UserError, err)
				}
				if !p.accumulateByte(c) {
					return p.fail(i, LengthError, nil)
				}
				p.tokStart = p.length
				mark = i + 1
				p.state = stateParams
			case '\r':
				if p.length == p.tokStart {
					return p.fail(i, ParseError, nil)
				}
				if err := p.emit(p.cb.command, data, mark, i); err != nil {
					return p.fail(i, UserError, err)
				}
				p.state = stateEnd
			default:
				if commandStop[c] {
					return p.fail(i, ParseError, nil)
				}
				j := scanToken(data, i, &commandStop)
				if n := p.accumulate(data[i:j]); n < j-i {
					return p.fail(i+n, LengthError, nil)
				}
				i = j - 1
			}

		case stateParams:
			switch c {
			case ' ':
				// Runs of spaces collapse; only a space that ends a middle
				// token emits anything.
				if p.length > p.tokStart {
					if err := p.emit(p.cb.param, data, mark, i); err != nil {
						return p.fail(i, UserError, err)
					}
				}
				if !p.accumulateByte(c) {
					return p.fail(i, LengthError, nil)
				}
				p.tokStart = p.length
				mark = i + 1
			case ':':
				if p.length == p.tokStart {
					if !p.accumulateByte(c) {
						return p.fail(i, LengthError, nil)
					}
					p.tokStart = p.length
					mark = i + 1
					p.state = stateTrailing
					break
				}
				// ':' past the first byte of a middle token is literal.
				j := scanToken(data, i, &middleStop)
				if n := p.accumulate(data[i:j]); n < j-i {
					return p.fail(i+n, LengthError, nil)
				}
				i = j - 1
			case '\r':
				if p.length > p.tokStart {
					if err := p.emit(p.cb.param, data, mark, i); err != nil {
						return p.fail(i, UserError, err)
					}
				}
				p.state = stateEnd
			default:
				if middleStop[c] {
					return p.fail(i, ParseError, nil)
				}
				if p.length == p.tokStart {
					mark = i
				}
				j := scanToken(data, i, &middleStop)
				if n := p.accumulate(data[i:j]); n < j-i {
					return p.fail(i+n, LengthError, nil)
				}
				i = j - 1
			}

		case stateTrailing:
			switch c {
			case '\r':
				// The trailing parameter may be empty.
				if err := p.emit(p.cb.param, data, mark, i); err != nil {
					return p.fail(i, UserError, err)
				}
				p.state = stateEnd
			default:
				if trailingStop[c] {
					return p.fail(i, ParseError, nil)
				}
				j := scanToken(data, i, &trailingStop)
				if n := p.accumulate(data[i:j]); n < j-i {
					return p.fail(i+n, LengthError, nil)
				}
				i = j - 1
			}

		case stateEnd:
			// Only a LF completing a CR seen earlier, possibly in the
			// previous call, is valid here.
			if c != '\n' || p.last != '\r' {
				return p.fail(i, ParseError, nil)
			}
			if p.cb.end != nil {
				if err := p.cb.end(); err != nil {
					return p.fail(i, UserError, err)
				}
			}
			p.rearm()
		}

		p.last = data[i]
	}

	return len(data)
}
