package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads answers from a terminal without blocking past a
// context's cancellation.
type LineReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReader(r)}
}

type lineResult struct {
	err  error
	line string
}

// ReadLine returns the next line with surrounding space trimmed. A final line
// without a newline is returned as is; io.EOF only comes back once nothing is
// left. A canceled ctx returns ErrInputCancelled while the read carries on in
// the background.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	ch := make(chan lineResult, 1)
	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		line, err := r.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		ch <- lineResult{line: strings.TrimSpace(line), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-ch:
		return res.line, res.err
	}
}

// Confirm writes prompt to w and reads a yes/no answer. Anything other than
// "y" or "yes" is a no, including no answer at all.
func Confirm(ctx context.Context, r *LineReader, w io.Writer, prompt string) (bool, error) {
	if _, err := io.WriteString(w, FormatPrompt(prompt+" [y/N]")); err != nil {
		return false, err
	}

	answer, err := r.ReadLine(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
