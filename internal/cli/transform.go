package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/terrapane/aescrypt-desktop/internal/events"
	"github.com/terrapane/aescrypt-desktop/internal/notify"
	"github.com/terrapane/aescrypt-desktop/internal/pathutil"
	"github.com/terrapane/aescrypt-desktop/internal/progress"
	"github.com/terrapane/aescrypt-desktop/internal/report"
	"github.com/terrapane/aescrypt-desktop/internal/worker"
)

// ErrCancelled is returned when the user interrupts a batch. The main
// package maps it to the conventional interrupt exit code.
var ErrCancelled = errors.New("cancelled")

// ErrFailed is returned when a batch stops on a failed file. The failure
// itself has already been reported.
var ErrFailed = errors.New("one or more files could not be processed")

func newEncryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt FILE...",
		Short: "Encrypt files, appending the reserved suffix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(worker.ModeEncrypt, args)
		},
	}
}

func newDecryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt FILE...",
		Short: "Decrypt files carrying the reserved suffix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(worker.ModeDecrypt, args)
		},
	}
}

// runInferred picks the mode from the file selection: every file carrying
// the reserved suffix means decrypt, none means encrypt, and a mixture is a
// user mistake.
func runInferred(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	suffixed := 0
	for _, arg := range args {
		if pathutil.HasEncryptedSuffix(arg, cfg.Suffix) {
			suffixed++
		}
	}
	switch suffixed {
	case len(args):
		return runTransform(worker.ModeDecrypt, args)
	case 0:
		return runTransform(worker.ModeEncrypt, args)
	}
	return fmt.Errorf("mixed selection: %d of %d files carry the %s suffix; use the encrypt or decrypt command explicitly",
		suffixed, len(args), cfg.Suffix)
}

func runTransform(mode worker.Mode, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := pathutil.ResolveAbsolute(arg)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", arg, err)
		}
		files = append(files, path)
	}

	// Reject mismatched selections before asking for a password: encrypting
	// an already-encrypted file or decrypting a plain one is a mistake the
	// user should hear about immediately.
	for _, path := range files {
		encrypted := pathutil.HasEncryptedSuffix(path, cfg.Suffix)
		if mode == worker.ModeEncrypt && encrypted {
			return fmt.Errorf("%s already carries the %s suffix", path, cfg.Suffix)
		}
		if mode == worker.ModeDecrypt && !encrypted {
			return fmt.Errorf("%s does not carry the %s suffix", path, cfg.Suffix)
		}
	}

	password, err := promptPassword(mode == worker.ModeEncrypt)
	if err != nil {
		return err
	}

	log := GetLogger()
	bus := events.NewEventBus(0)
	rep := report.New(log, bus, cfg.Notifications)
	dispatcher := worker.NewDispatcher(cfg, rep, bus, log)

	notifier := notify.NewNotifier(cfg.Notifications, log)
	notifier.Watch(bus)

	var surface worker.Surface
	if !quiet {
		surface = progress.NewConsole()
	}

	handle, err := dispatcher.Submit(worker.BatchRequest{
		Files:    files,
		Password: password,
		Mode:     mode,
	}, surface)
	if err != nil {
		return err
	}

	// Ctrl+C cancels the batch; the worker stops after the in-flight file
	// winds down and cleans up its partial output.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived %v, cancelling...\n", sig)
				handle.Cancel()
			}
		}
	}()

	<-handle.Done()

	signal.Stop(sigChan)
	close(sigChan)

	dispatcher.Shutdown()
	notifier.Stop()
	bus.Close()

	switch handle.Outcome() {
	case worker.OutcomeCancelled:
		return ErrCancelled
	case worker.OutcomeFailed:
		return ErrFailed
	}
	return nil
}
