// Package cli provides the command-line interface for aescrypt-desktop.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/terrapane/aescrypt-desktop/internal/config"
	"github.com/terrapane/aescrypt-desktop/internal/logging"
	"github.com/terrapane/aescrypt-desktop/internal/version"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	debug   bool
	quiet   bool
	noAlert bool

	// Global logger
	logger *logging.Logger
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   version.ProgramName,
		Short: "Encrypt and decrypt files with AES-256",
		Long: version.ProgramName + ` ` + version.Version + `
Encrypts and decrypts batches of files with AES-256-CTR and an
HMAC-SHA256 integrity check. Encrypting appends the reserved suffix
(` + config.DefaultSuffix + ` by default); decrypting requires and strips it.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultCLILogger()
			if verbose || debug {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		// Files given without a subcommand infer the mode the way the
		// desktop launcher does: all carrying the suffix means decrypt,
		// none means encrypt, a mixed selection is rejected.
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runInferred(args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress per-file progress bars")
	rootCmd.PersistentFlags().BoolVar(&noAlert, "no-notify", false, "Disable desktop notifications")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	return rootCmd.Execute()
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newEncryptCmd())
	rootCmd.AddCommand(newDecryptCmd())
	rootCmd.AddCommand(newInfoCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// loadConfig loads configuration honoring the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if noAlert {
		cfg.Notifications = false
	}
	return cfg, nil
}
