package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/BLAZED-sh/irc-parser/pkg/irc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeederDeliversMessages(t *testing.T) {
	input := "PING :a\r\n:nick!user@host PRIVMSG #chan :hello\r\n"

	var got []*Message
	collector := NewCollector(func(m *Message) error {
		got = append(got, m)
		return nil
	})
	parser := irc.NewParser()
	parser.Bind(collector)

	// A tiny chunk size forces messages and tokens across read boundaries.
	feeder := NewFeeder(strings.NewReader(input), parser, WithChunkSize(5))
	err := feeder.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(len(input)), feeder.BytesConsumed())

	require.Len(t, got, 2)
	assert.Equal(t, "PING", got[0].Command)
	assert.Equal(t, []string{"a"}, got[0].Params)
	assert.Equal(t, "nick", got[1].Nick)
	assert.Equal(t, "user", got[1].User)
	assert.Equal(t, "host", got[1].Host)
	assert.Equal(t, "PRIVMSG", got[1].Command)
	assert.Equal(t, []string{"#chan", "hello"}, got[1].Params)
}

func TestFeederTruncatedStream(t *testing.T) {
	parser := irc.NewParser()
	feeder := NewFeeder(strings.NewReader("PING :no terminator"), parser)

	err := feeder.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestFeederParseErrorOffset(t *testing.T) {
	// The second message carries a bare LF at absolute offset 13.
	input := "PING :a\r\nOOPS\nPING :b\r\n"
	parser := irc.NewParser()
	feeder := NewFeeder(strings.NewReader(input), parser, WithChunkSize(3))

	err := feeder.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, irc.ErrParse)
	assert.Contains(t, err.Error(), "byte 13")
	assert.Equal(t, int64(13), feeder.BytesConsumed())
}

func TestFeederCallbackAbort(t *testing.T) {
	stop := errors.New("enough")
	delivered := 0
	collector := NewCollector(func(m *Message) error {
		delivered++
		if delivered == 2 {
			return stop
		}
		return nil
	})
	parser := irc.NewParser()
	parser.Bind(collector)

	input := "PING :a\r\nPING :b\r\nPING :c\r\n"
	feeder := NewFeeder(strings.NewReader(input), parser)

	err := feeder.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, irc.ErrUser)
	assert.Contains(t, err.Error(), "enough")
	assert.Equal(t, 2, delivered)
}

func TestFeederContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	parser := irc.NewParser()
	feeder := NewFeeder(strings.NewReader("PING :a\r\n"), parser)

	err := feeder.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFeederReadError(t *testing.T) {
	boom := errors.New("socket gone")
	r := io.MultiReader(strings.NewReader("PING :a\r\n"), iotest.ErrReader(boom))

	messages := 0
	parser := irc.NewParser()
	parser.OnEnd(func() error {
		messages++
		return nil
	})
	feeder := NewFeeder(r, parser)

	err := feeder.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, messages, "the complete message before the failure should parse")
}

func BenchmarkFeeder(b *testing.B) {
	var corpus strings.Builder
	for i := 0; i < 1000; i++ {
		corpus.WriteString(":nick!user@host PRIVMSG #channel :benchmark payload line\r\n")
	}
	input := corpus.String()

	parser := irc.NewParser()
	parser.OnParam(func([]byte) error { return nil })
	parser.OnEnd(func() error { return nil })

	b.SetBytes(int64(len(input)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		reader := strings.NewReader(input)
		b.StartTimer()

		feeder := NewFeeder(reader, parser, WithChunkSize(4096))
		if err := feeder.Run(context.Background()); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
