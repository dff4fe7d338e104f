package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/terrapane/aescrypt-desktop/internal/secure"
)

// readPassword obtains the password without echoing it. When stdin is not a
// terminal (scripts, pipes) it falls back to reading one line, so the tool
// stays usable from automation.
func readPassword(prompt string) (*secure.Bytes, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		return secure.New(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil, err
	}
	return secure.FromString(strings.TrimRight(line, "\r\n")), nil
}

// promptPassword asks for the password, with a confirmation pass when a new
// one is being set (encryption).
func promptPassword(confirm bool) (*secure.Bytes, error) {
	pw, err := readPassword("Password: ")
	if err != nil {
		return nil, err
	}
	if pw.Empty() {
		pw.Wipe()
		return nil, errors.New("password must not be empty")
	}
	if !confirm {
		return pw, nil
	}

	again, err := readPassword("Confirm password: ")
	if err != nil {
		pw.Wipe()
		return nil, err
	}
	defer again.Wipe()

	if !bytesEqual(pw.Data(), again.Data()) {
		pw.Wipe()
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
