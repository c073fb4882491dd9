// Command pvm runs, inspects and debugs JAM PVM program blobs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/colorfulnotion/jampvm/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	Version = "dev"
	Commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		debug    string
		otlp     string
		shutdown func(context.Context) error
	)

	var rootCmd = &cobra.Command{
		Use:           "pvm",
		Short:         "JAM PVM interpreter and program tools",
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.InitLogger(logLevel); err != nil {
				return err
			}
			log.EnableModules(debug)
			if otlp == "" {
				return nil
			}
			var err error
			shutdown, err = startTracing(cmd.Context(), otlp)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(context.Background())
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&debug, "debug", "", "comma separated log modules to enable (pvm_interp, pvm_host, pvm_store, pvm_cli or all)")
	rootCmd.PersistentFlags().StringVar(&otlp, "otlp", "", "OTLP/HTTP endpoint (host:port) receiving invocation traces")

	rootCmd.AddCommand(
		newRunCmd(),
		newDisasmCmd(),
		newStatsCmd(),
		newBlocksCmd(),
		newVectorCmd(),
		newStoreCmd(),
		newDebugCmd(),
	)
	return rootCmd
}

// startTracing exports spans to an OTLP/HTTP collector at endpoint. The
// returned function flushes and stops the exporter.
func startTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	log.Debug(log.PvmCLI, "tracing enabled", "endpoint", endpoint)
	return tp.Shutdown, nil
}
