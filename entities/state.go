package entities

import (
	"fmt"
	"strconv"
)

// State counts the documents and violations of one execution.
type State struct {
	total    int
	messages []string
}

// IncrementTotal counts one more validated document.
func (s *State) IncrementTotal() {
	s.total++
}

// AddViolation records the message of a failed validation.
func (s *State) AddViolation(msg string) {
	s.messages = append(s.messages, msg)
}

// Total returns the number of validated documents.
func (s *State) Total() int {
	return s.total
}

// Violations returns the number of recorded violations.
func (s *State) Violations() int {
	return len(s.messages)
}

// Summary returns one (index, message) row per violation in the order they
// were recorded.
func (s *State) Summary() [][2]string {
	rows := make([][2]string, len(s.messages))
	for i, msg := range s.messages {
		rows[i] = [2]string{strconv.Itoa(i), msg}
	}
	return rows
}

// Message returns the violation count message, or "" without violations.
func (s *State) Message() string {
	if len(s.messages) == 0 {
		return ""
	}
	return fmt.Sprintf("Found %d violations in %d entities",
		len(s.messages), s.total)
}
