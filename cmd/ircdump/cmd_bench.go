package main

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BLAZED-sh/irc-parser/pkg/irc"
	"github.com/BLAZED-sh/irc-parser/pkg/stream"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// benchSample is the synthetic traffic mix the bench subcommand replays:
// a short ping, a prefixed chat line, a numeric reply and a bare command.
var benchSample = [][]byte{
	[]byte("PING :irc.example.net\r\n"),
	[]byte(":nick!user@host PRIVMSG #channel :hello there\r\n"),
	[]byte(":irc.example.net 001 newbie :Welcome to the network\r\n"),
	[]byte("JOIN #go-nuts\r\n"),
}

func newBenchCmd() *cobra.Command {
	var messages int
	var workers int
	var chunkSize int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure tokenizer throughput on a synthetic stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers < 1 {
				workers = runtime.NumCPU()
			}
			if chunkSize < 1 {
				return fmt.Errorf("invalid chunk size %d", chunkSize)
			}

			parsers := stream.NewPool(workers, func() *irc.Parser {
				return irc.NewParser()
			})
			workerPool, err := ants.NewPool(workers)
			if err != nil {
				return fmt.Errorf("worker pool: %w", err)
			}
			defer workerPool.Release()

			var wg sync.WaitGroup
			var completed atomic.Int64
			var bytes atomic.Int64
			var failures atomic.Int64

			perWorker := messages / workers
			remainder := messages % workers

			start := time.Now()
			for w := 0; w < workers; w++ {
				n := perWorker
				if w < remainder {
					n++
				}
				if n == 0 {
					continue
				}

				wg.Add(1)
				job := func() {
					defer wg.Done()
					parser := parsers.Get()
					defer parsers.Put(parser)

					ends := 0
					parser.OnEnd(func() error {
						ends++
						return nil
					})

					var fed int64
					for k := 0; k < n; k++ {
						msg := benchSample[k%len(benchSample)]
						for off := 0; off < len(msg); off += chunkSize {
							end := off + chunkSize
							if end > len(msg) {
								end = len(msg)
							}
							chunk := msg[off:end]
							if parser.Execute(chunk) < len(chunk) {
								failures.Add(1)
								parser.Reset()
								break
							}
							fed += int64(len(chunk))
						}
					}
					completed.Add(int64(ends))
					bytes.Add(fed)
				}
				if err := workerPool.Submit(job); err != nil {
					wg.Done()
					return fmt.Errorf("submit worker: %w", err)
				}
			}
			wg.Wait()
			elapsed := time.Since(start)

			if n := failures.Load(); n > 0 {
				return fmt.Errorf("%d messages failed to parse", n)
			}

			log.Info().
				Int64("messages", completed.Load()).
				Int64("bytes", bytes.Load()).
				Int("workers", workers).
				Int("chunk", chunkSize).
				Dur("elapsed", elapsed).
				Float64("msgs_per_sec", float64(completed.Load())/elapsed.Seconds()).
				Float64("mb_per_sec", float64(bytes.Load())/1e6/elapsed.Seconds()).
				Msg("bench complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&messages, "messages", 1_000_000, "number of messages to parse")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all CPUs)")
	cmd.Flags().IntVar(&chunkSize, "chunk", 4096, "bytes handed to the parser per call")

	return cmd
}
