package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	llmerrors "github.com/ahrav/go-stratagem/internal/llm/errors"
)

// errValidationFailed makes the process exit non-zero after a failing
// validation report has been printed.
var errValidationFailed = errors.New("visualization failed validation")

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeFailure prints a typed generation failure as JSON so scripts can
// branch on its kind and status. The error is returned for the exit code.
func writeFailure(w io.Writer, err error) error {
	typed := llmerrors.Classify("", err)
	if encErr := writeJSON(w, typed); encErr != nil {
		return fmt.Errorf("%w (report failed: %v)", err, encErr)
	}
	return err
}

// readInput reads path, or standard input when path is "-".
func readInput(in io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
