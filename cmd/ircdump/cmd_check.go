package main

import (
	"fmt"

	"github.com/BLAZED-sh/irc-parser/pkg/irc"
	"github.com/BLAZED-sh/irc-parser/pkg/stream"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var chunkSize int

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate that a stream tokenizes cleanly",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, name, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			messages := 0
			parser := irc.NewParser(irc.WithLogger(log.Logger))
			parser.OnEnd(func() error {
				messages++
				return nil
			})

			feeder := stream.NewFeeder(in, parser,
				stream.WithChunkSize(chunkSize),
				stream.WithLogger(log.Logger),
			)
			if err := feeder.Run(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			log.Info().
				Str("input", name).
				Int("messages", messages).
				Int64("bytes", feeder.BytesConsumed()).
				Msg("stream ok")
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk", 4096, "read size per parser call")

	return cmd
}
