package cli

import (
	"strings"
	"testing"
)

// These exercise the validation that runs before any password prompt, so
// they complete without touching stdin.

func execute(args ...string) error {
	cmd := NewRootCmd()
	AddCommands(cmd)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestEncryptRejectsSuffixedInput(t *testing.T) {
	err := execute("encrypt", "/tmp/already.aes")
	if err == nil || !strings.Contains(err.Error(), "already carries") {
		t.Fatalf("err = %v, want suffix rejection", err)
	}
}

func TestDecryptRejectsPlainInput(t *testing.T) {
	err := execute("decrypt", "/tmp/plain.txt")
	if err == nil || !strings.Contains(err.Error(), "does not carry") {
		t.Fatalf("err = %v, want suffix rejection", err)
	}
}

func TestInferredModeRejectsMixedSelection(t *testing.T) {
	err := execute("/tmp/plain.txt", "/tmp/sealed.aes")
	if err == nil || !strings.Contains(err.Error(), "mixed selection") {
		t.Fatalf("err = %v, want mixed selection rejection", err)
	}
}
