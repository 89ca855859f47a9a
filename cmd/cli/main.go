package main

import (
	"fmt"
	"os"

	"alocdash/internal"
	"alocdash/internal/config"
	"alocdash/internal/container"
	"alocdash/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError prefixes application errors with their code
func formatError(err error) string {
	if errors.IsAppError(err) {
		return fmt.Sprintf("[%s] %v", errors.GetCode(err), err)
	}
	return err.Error()
}

// options are the persistent flags shared by every command
type options struct {
	dataDir string
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "alocdash",
		Short:         "Allocation dashboard for directors and coordinators per GRE, Polo and Escola",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory holding the workbooks (overrides DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file to load before reading the configuration")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newReportCmd(opts),
		newCheckCmd(opts),
		newSampleCmd(),
	)
	return rootCmd
}

// load reads the environment and configuration and wires the container
func (o *options) load() (*container.Container, error) {
	if o.envFile != "" {
		// a missing env file is fine, the process environment still applies
		_ = godotenv.Load(o.envFile)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrapf(err, "configuração inválida (env file %q)", o.envFile)
	}
	if o.dataDir != "" {
		cfg.Data.Dir = o.dataDir
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.Logging.Level))
	return container.New(cfg)
}
