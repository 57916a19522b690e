package command

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words, lowercased. Content IDs are lowercase.
	Args []string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: If line is blank, Command is empty and Args is nil.
func Parse(line string) ParseResult {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ParseResult{}
	}
	pr := ParseResult{Command: fields[0]}
	if len(fields) > 1 {
		pr.Args = fields[1:]
	}
	return pr
}

// Arg returns the i-th argument or "" when absent.
func (p ParseResult) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// IntArg parses the i-th argument as a positive integer.
func (p ParseResult) IntArg(i int) (int, error) {
	s := p.Arg(i)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%d must be at least 1", n)
	}
	return n, nil
}
