package console

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

type lineResult struct {
	text string
	err  error
}

// Input serializes reads from the console's input stream. Blocking reads
// run in a goroutine so they can be abandoned on cancellation or on the
// secret prompt's timeout; an abandoned line read stays pending and is
// consumed by the next read instead of being lost.
type Input struct {
	reader  *bufio.Reader
	file    *os.File // non-nil when the input is a terminal
	pending chan lineResult
}

// NewInput wraps an input stream. When the stream is a terminal the secret
// prompt reads without echo.
func NewInput(r io.Reader) *Input {
	in := &Input{reader: bufio.NewReader(r)}
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		in.file = f
	}
	return in
}

func (in *Input) startLineRead() chan lineResult {
	if in.pending != nil {
		ch := in.pending
		in.pending = nil
		return ch
	}
	ch := make(chan lineResult, 1)
	go func() {
		line, err := in.reader.ReadString('\n')
		if err != nil && line == "" {
			ch <- lineResult{err: err}
			return
		}
		ch <- lineResult{text: strings.TrimRight(line, "\r\n")}
	}()
	return ch
}

// ReadLine blocks until a full line, end of stream, or cancellation.
func (in *Input) ReadLine(ctx context.Context) (string, error) {
	ch := in.startLineRead()
	select {
	case <-ctx.Done():
		in.pending = ch
		return "", ctx.Err()
	case res := <-ch:
		return res.text, res.err
	}
}

// ReadSecret reads one secret line, without echo when the input is a
// terminal. The wait is bounded: after timeout the prompt is abandoned and
// timedOut is true. End of stream yields an empty secret.
func (in *Input) ReadSecret(ctx context.Context, timeout time.Duration) (secret string, timedOut bool) {
	var ch chan lineResult
	fromTerminal := in.file != nil && in.pending == nil
	if fromTerminal {
		ch = make(chan lineResult, 1)
		fd := int(in.file.Fd())
		go func() {
			data, err := term.ReadPassword(fd)
			ch <- lineResult{text: string(data), err: err}
		}()
	} else {
		ch = in.startLineRead()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		if !fromTerminal {
			in.pending = ch
		}
		return "", false
	case <-timer.C:
		// A timed-out terminal read is discarded outright; a timed-out
		// stream read leaves its line for the next prompt.
		if !fromTerminal {
			in.pending = ch
		}
		return "", true
	case res := <-ch:
		if res.err != nil {
			return "", false
		}
		return res.text, false
	}
}

// Interactive reports whether the input is a terminal.
func (in *Input) Interactive() bool {
	return in.file != nil
}
