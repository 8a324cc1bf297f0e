// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxMessageBytes bounds what is read from a file or stdin.
const maxMessageBytes = 4 << 20

// ErrMessageTooLarge is returned for input beyond maxMessageBytes.
var ErrMessageTooLarge = errors.New("message too large")

// ReadMessage reads a message from inputFile, or from stdin when inputFile is empty or "-".
func ReadMessage(stdin io.Reader, inputFile string) (string, error) {
	if inputFile == "" || inputFile == "-" {
		data, err := readMessage(stdin, maxMessageBytes)
		if err != nil {
			return "", fmt.Errorf("error reading standard input: %w", err)
		}
		return data, nil
	}

	f, err := os.Open(inputFile) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return "", fmt.Errorf("error opening input file: %w", err)
	}
	defer f.Close()

	data, err := readMessage(f, maxMessageBytes)
	if err != nil {
		return "", fmt.Errorf("error reading input file: %w", err)
	}
	return data, nil
}

func readMessage(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrMessageTooLarge, limit)
	}
	return string(data), nil
}

// CreateOutput returns a writer for outputFile, creating parent directories, or stdout
// when outputFile is empty. The returned close function must always be called.
func CreateOutput(stdout io.Writer, outputFile string) (io.Writer, func() error, error) {
	if outputFile == "" || outputFile == "-" {
		return stdout, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0750); err != nil {
		return nil, nil, fmt.Errorf("error creating directory: %w", err)
	}
	f, err := os.Create(outputFile) // #nosec G304 -- CLI tool requires user-provided output paths
	if err != nil {
		return nil, nil, fmt.Errorf("error creating output file: %w", err)
	}
	return f, f.Close, nil
}
