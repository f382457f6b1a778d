package sniffer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer decides whether a detected setting replaces the configured one.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Interactive asks the question on Out and reads the answer from In.
// Empty, "y" and "yes" accept; "n" and "no" decline; anything else asks again.
// End of input declines.
type Interactive struct {
	in  *bufio.Reader
	out io.Writer
}

// NewInteractive returns a Confirmer that prompts on out and reads from in.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{in: bufio.NewReader(in), out: out}
}

func (c *Interactive) Confirm(question string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(c.out, "%s [Y/n] ", question); err != nil {
			return false, err
		}

		line, err := c.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case "":
			if err == nil {
				return true, nil
			}
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return false, nil
		}
	}
}

// AutoAccept accepts every suggestion without prompting.
type AutoAccept struct{}

func (AutoAccept) Confirm(string) (bool, error) { return true, nil }

// AutoReject keeps the configured settings without prompting.
type AutoReject struct{}

func (AutoReject) Confirm(string) (bool, error) { return false, nil }
