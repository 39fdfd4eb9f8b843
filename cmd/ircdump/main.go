package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var logLevel string
	var prettyLogs bool

	rootCmd := &cobra.Command{
		Use:   "ircdump",
		Short: "Tokenize and inspect IRC message streams",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel, prettyLogs)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty", false, "Enable pretty logging output")

	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newMessagesCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newBenchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openInput resolves a subcommand's input stream: the named file, or stdin
// when no argument (or "-") was given.
func openInput(args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", args[0], err)
	}
	return f, args[0], nil
}

func setupLogging(level string, pretty bool) {
	// Set log level
	var logLevel zerolog.Level
	switch level {
	case "trace":
		logLevel = zerolog.TraceLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	case "fatal":
		logLevel = zerolog.FatalLevel
	default:
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// Logs go to stderr; subcommand output owns stdout.
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
