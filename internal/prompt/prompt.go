// Package prompt asks the user yes/no questions and free-text answers.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirmer asks a yes/no question. Declining is not an error.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Prompter asks for a line of text. ok is false when the user cancelled
// (end of input).
type Prompter interface {
	Prompt(question, defaultValue string) (answer string, ok bool, err error)
}

// Terminal implements Confirmer and Prompter over a reader and a writer.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // of in when it is a terminal, else -1
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
	}
	return t
}

func (t *Terminal) readLine() (string, bool, error) {
	line, err := t.in.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", false, nil
		}
		return strings.TrimRight(line, "\r\n"), true, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

// Confirm accepts o/oui/y/yes (any case); anything else declines.
func (t *Terminal) Confirm(question string) (bool, error) {
	fmt.Fprintf(t.out, "%s [o/N] ", question)
	line, ok, err := t.readLine()
	if err != nil || !ok {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "o", "oui", "y", "yes":
		return true, nil
	}
	return false, nil
}

// Prompt shows defaultValue in brackets; an empty line accepts it.
func (t *Terminal) Prompt(question, defaultValue string) (string, bool, error) {
	if defaultValue != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", question, defaultValue)
	} else {
		fmt.Fprintf(t.out, "%s: ", question)
	}
	line, ok, err := t.readLine()
	if err != nil || !ok {
		return "", false, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		line = defaultValue
	}
	return line, true, nil
}

// Password reads a line without echo when the input is a terminal.
func (t *Terminal) Password(question string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", question)
	if t.fd >= 0 {
		b, err := term.ReadPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, _, err := t.readLine()
	return line, err
}

// Always answers every confirmation with the same value.
type Always bool

func (a Always) Confirm(string) (bool, error) { return bool(a), nil }

// Answer answers every prompt with Text (the default when empty), or
// cancels every prompt when Cancelled is set.
type Answer struct {
	Text      string
	Cancelled bool
}

func (a Answer) Prompt(_, defaultValue string) (string, bool, error) {
	if a.Cancelled {
		return "", false, nil
	}
	if a.Text == "" {
		return defaultValue, true, nil
	}
	return a.Text, true, nil
}
