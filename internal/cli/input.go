package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/recstore/internal/record"
	"github.com/roach88/recstore/internal/schema"
)

// inputError marks a failure caused by a malformed argument or file.
type inputError struct {
	err error
}

func (e *inputError) Error() string { return e.err.Error() }

func (e *inputError) Unwrap() error { return e.err }

// readRecord parses a record argument. "-" reads the JSON from in.
func readRecord(arg string, in io.Reader) (*record.Record, error) {
	data := []byte(arg)
	if arg == "-" {
		var err error
		data, err = io.ReadAll(in)
		if err != nil {
			return nil, &inputError{fmt.Errorf("read record from stdin: %w", err)}
		}
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, &inputError{fmt.Errorf("invalid record: empty input")}
	}

	var rec record.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &inputError{fmt.Errorf("invalid record: %w", err)}
	}
	return &rec, nil
}

// strategy resolves a --strategy flag, falling back to the configured one.
func (s *session) strategy(flag string) (schema.Strategy, error) {
	if flag != "" {
		strategy, err := schema.ParseStrategy(flag)
		if err != nil {
			return 0, s.fail(WrapExitError(ExitCommandError, "invalid --strategy", err))
		}
		return strategy, nil
	}
	strategy, err := s.cfg.KeyStrategy()
	if err != nil {
		return 0, s.fail(WrapExitError(ExitCommandError, "invalid configuration", err))
	}
	return strategy, nil
}
