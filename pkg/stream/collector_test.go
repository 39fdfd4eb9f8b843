package stream

import (
	"reflect"
	"testing"

	"github.com/BLAZED-sh/irc-parser/pkg/irc"
	"github.com/davecgh/go-spew/spew"
)

func TestCollectorAssemblesMessages(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []Message
	}{
		{
			name:  "bare command",
			input: "QUIT\r\n",
			want:  []Message{{Command: "QUIT"}},
		},
		{
			name:  "full prefix and trailing",
			input: ":nick!user@host PRIVMSG #chan :hello world\r\n",
			want: []Message{{
				Nick:    "nick",
				User:    "user",
				Host:    "host",
				Command: "PRIVMSG",
				Params:  []string{"#chan", "hello world"},
			}},
		},
		{
			name:  "server prefix numeric",
			input: ":irc.example.net 372 me :- motd line\r\n",
			want: []Message{{
				Nick:    "irc.example.net",
				Command: "372",
				Params:  []string{"me", "- motd line"},
			}},
		},
		{
			name:  "sequential messages do not bleed state",
			input: ":nick!user@host JOIN #a\r\nPING :b\r\n",
			want: []Message{
				{Nick: "nick", User: "user", Host: "host", Command: "JOIN", Params: []string{"#a"}},
				{Command: "PING", Params: []string{"b"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got []Message
			collector := NewCollector(func(m *Message) error {
				got = append(got, *m)
				return nil
			})
			parser := irc.NewParser()
			parser.Bind(collector)

			data := []byte(tc.input)
			if consumed := parser.Execute(data); consumed != len(data) {
				t.Fatalf("consumed %d of %d bytes: %v", consumed, len(data), parser.Err())
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("messages mismatch:\n got: %s\nwant: %s",
					spew.Sdump(got), spew.Sdump(tc.want))
			}
		})
	}
}

func TestCollectorMessagesOutliveParseBuffers(t *testing.T) {
	var got []*Message
	collector := NewCollector(func(m *Message) error {
		got = append(got, m)
		return nil
	})
	parser := irc.NewParser()
	parser.Bind(collector)

	// Reuse one buffer for both messages so any retained token slice
	// would be clobbered by the second parse.
	buf := make([]byte, 0, 64)
	buf = append(buf[:0], ":alice!a@h1 PRIVMSG #x :first\r\n"...)
	if consumed := parser.Execute(buf); consumed != len(buf) {
		t.Fatalf("first message: consumed %d of %d: %v", consumed, len(buf), parser.Err())
	}
	buf = append(buf[:0], ":bobby!b@h2 PRIVMSG #y :second\r\n"...)
	if consumed := parser.Execute(buf); consumed != len(buf) {
		t.Fatalf("second message: consumed %d of %d: %v", consumed, len(buf), parser.Err())
	}

	want := []*Message{
		{Nick: "alice", User: "a", Host: "h1", Command: "PRIVMSG", Params: []string{"#x", "first"}},
		{Nick: "bobby", User: "b", Host: "h2", Command: "PRIVMSG", Params: []string{"#y", "second"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("messages mismatch:\n got: %s\nwant: %s", spew.Sdump(got), spew.Sdump(want))
	}
}
