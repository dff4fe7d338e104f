package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/terrapane/aescrypt-desktop/internal/engine"
	"github.com/terrapane/aescrypt-desktop/internal/pathutil"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Show the plaintext header of encrypted files",
		Long: `Prints the format version, key-derivation iteration count, and any
plaintext extensions (such as the creating application) without needing
the password. The file contents stay sealed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var firstErr error
			for _, arg := range args {
				path, err := pathutil.ResolveAbsolute(arg)
				if err == nil {
					err = printInfo(cmd, path)
				}
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
					if firstErr == nil {
						firstErr = err
					}
				}
			}
			return firstErr
		},
	}
}

func printInfo(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := engine.ReadHeader(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n", path)
	fmt.Fprintf(out, "  format version: %d\n", info.Version)
	fmt.Fprintf(out, "  kdf iterations: %d\n", info.Iterations)
	for _, ext := range info.Extensions {
		fmt.Fprintf(out, "  %s: %s\n", ext.Name, ext.Value)
	}
	return nil
}
