package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// cliPrompter asks confirmations on the terminal. With assumeYes every
// question is accepted without reading input.
type cliPrompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newCLIPrompter(in io.Reader, out io.Writer, assumeYes bool) *cliPrompter {
	return &cliPrompter{
		in:        bufio.NewReader(in),
		out:       out,
		assumeYes: assumeYes,
	}
}

func (p *cliPrompter) Confirm(ctx context.Context, question string) bool {
	if p.assumeYes {
		return true
	}

	fmt.Fprintf(p.out, "%s [y/N]: ", question)

	if ctx.Done() == nil {
		line, _ := p.in.ReadString('\n')
		return isYes(line)
	}

	// A cancelled prompt leaves the reader blocked on stdin until the
	// process exits. Each CLI command asks at most once before exiting.
	answer := make(chan string, 1)
	go func() {
		line, _ := p.in.ReadString('\n')
		answer <- line
	}()

	select {
	case line := <-answer:
		return isYes(line)
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false
	}
}

func isYes(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (p *cliPrompter) Alert(ctx context.Context, message string) {
	fmt.Fprintf(p.out, "genie: %s\n", message)
}
