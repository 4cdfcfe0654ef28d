package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned when input ends before a valid answer is given.
var ErrNoInput = errors.New("no input")

// Prompt asks question on w and reads answers from r until validate accepts
// one. Validation messages are printed before asking again. A nil validate
// accepts anything, including an empty answer.
func Prompt(w io.Writer, r io.Reader, question string, validate func(string) error) (string, error) {
	reader := bufio.NewReader(r)
	for {
		_, _ = fmt.Fprintf(w, "? %s ", question)

		line, err := reader.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && (err != io.EOF || answer == "") {
			if err == io.EOF {
				return "", ErrNoInput
			}
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		if validate == nil {
			return answer, nil
		}
		verr := validate(answer)
		if verr == nil {
			return answer, nil
		}
		_, _ = fmt.Fprintf(w, ">> %s\n", verr)
		if err == io.EOF {
			return "", ErrNoInput
		}
	}
}
