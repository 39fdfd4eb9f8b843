package main

import (
	"encoding/json"
	"fmt"

	"github.com/BLAZED-sh/irc-parser/pkg/irc"
	"github.com/BLAZED-sh/irc-parser/pkg/stream"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMessagesCmd() *cobra.Command {
	var chunkSize int

	cmd := &cobra.Command{
		Use:   "messages [file]",
		Short: "Collect whole messages and print each as a JSON object",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, name, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			count := 0
			collector := stream.NewCollector(func(m *stream.Message) error {
				b, err := json.Marshal(m)
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				count++
				return nil
			})

			parser := irc.NewParser(irc.WithLogger(log.Logger))
			parser.Bind(collector)

			feeder := stream.NewFeeder(in, parser,
				stream.WithChunkSize(chunkSize),
				stream.WithLogger(log.Logger),
			)
			if err := feeder.Run(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			log.Debug().
				Str("input", name).
				Int("messages", count).
				Int64("bytes", feeder.BytesConsumed()).
				Msg("stream complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk", 4096, "read size per parser call")

	return cmd
}
