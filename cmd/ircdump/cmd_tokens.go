package main

import (
	"fmt"

	"github.com/BLAZED-sh/irc-parser/pkg/irc"
	"github.com/BLAZED-sh/irc-parser/pkg/stream"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var chunkSize int

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print every token event from a message stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, name, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			sink := func(category string) irc.Callback {
				return func(token []byte) error {
					fmt.Printf("%-8s %q\n", category, token)
					return nil
				}
			}

			parser := irc.NewParser(irc.WithLogger(log.Logger))
			parser.OnNick(sink("nick"))
			parser.OnName(sink("name"))
			parser.OnHost(sink("host"))
			parser.OnCommand(sink("command"))
			parser.OnParam(sink("param"))
			parser.OnEnd(func() error {
				fmt.Println("end")
				return nil
			})

			feeder := stream.NewFeeder(in, parser,
				stream.WithChunkSize(chunkSize),
				stream.WithLogger(log.Logger),
			)
			if err := feeder.Run(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			log.Debug().
				Str("input", name).
				Int64("bytes", feeder.BytesConsumed()).
				Msg("stream complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk", 4096, "read size per parser call")

	return cmd
}
