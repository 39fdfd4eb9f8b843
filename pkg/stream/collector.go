package stream

import "github.com/BLAZED-sh/irc-parser/pkg/irc"

// Message is one fully tokenized protocol message. Every field is a copy
// made at collection time, so a Message may be retained after the parse
// buffers that produced it are reused.
type Message struct {
	Nick    string   `json:"nick,omitempty"`
	User    string   `json:"user,omitempty"`
	Host    string   `json:"host,omitempty"`
	Command string   `json:"command"`
	Params  []string `json:"params,omitempty"`
}

// Collector is an irc.Handler that assembles token events into Message
// values and hands each finished message to a sink function. Bind it to a
// parser with (*irc.Parser).Bind. A non-nil error from the sink aborts the
// parse and surfaces as irc.ErrUser.
type Collector struct {
	msg  Message
	sink func(*Message) error
}

var _ irc.Handler = (*Collector)(nil)

// NewCollector returns a Collector delivering messages to sink.
func NewCollector(sink func(*Message) error) *Collector {
	return &Collector{sink: sink}
}

func (c *Collector) Nick(token []byte) error {
	c.msg.Nick = string(token)
	return nil
}

func (c *Collector) Name(token []byte) error {
	c.msg.User = string(token)
	return nil
}

func (c *Collector) Host(token []byte) error {
	c.msg.Host = string(token)
	return nil
}

func (c *Collector) Command(token []byte) error {
	c.msg.Command = string(token)
	return nil
}

func (c *Collector) Param(token []byte) error {
	c.msg.Params = append(c.msg.Params, string(token))
	return nil
}

// End delivers the assembled message and clears the collector for the
// next one.
func (c *Collector) End() error {
	m := c.msg
	c.msg = Message{}
	return c.sink(&m)
}
