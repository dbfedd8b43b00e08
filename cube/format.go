package cube

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Text format: the size followed by size^3 entries in flat order, whitespace
// separated. "2 0.1 0.2 0.3 0.4 0.5 0.6 0.7 0.8" is a size-2 state.

// ParseText parses a state from its text form.
func ParseText(s string) (State, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return State{}, errors.New("cube: empty state text")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return State{}, fmt.Errorf("cube: bad size %q: %w", fields[0], err)
	}
	if n < 0 {
		return State{}, fmt.Errorf("cube: negative size %d", n)
	}
	rest := fields[1:]
	if want := n * n * n; len(rest) != want {
		return State{}, fmt.Errorf("cube: size %d needs %d values, got %d", n, want, len(rest))
	}
	values := make([]float64, len(rest))
	for i, f := range rest {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return State{}, fmt.Errorf("cube: value %d: %w", i, err)
		}
		values[i] = v
	}
	return State{n: n, data: values}, nil
}

// FormatText renders s in the text form accepted by ParseText.
func FormatText(s State) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(s.n))
	for _, v := range s.data {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return sb.String()
}

// MarshalJSON encodes the state as nested [block][row][col] arrays.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Matrices())
}

// UnmarshalJSON decodes nested [block][row][col] arrays.
func (s *State) UnmarshalJSON(b []byte) error {
	var blocks [][][]float64
	if err := json.Unmarshal(b, &blocks); err != nil {
		return fmt.Errorf("cube: decode state: %w", err)
	}
	st, err := FromMatrices(blocks)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// ParseAny accepts either the JSON or the text form.
func ParseAny(s string) (State, error) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "[") {
		var st State
		if err := json.Unmarshal([]byte(t), &st); err != nil {
			return State{}, err
		}
		return st, nil
	}
	return ParseText(t)
}
