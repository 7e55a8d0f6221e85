// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package target turns the input specifier given on the command line into
// the ordered set of datasheet identifiers to process.
package target

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/inscrap/pkg/types"
)

var (
	// ErrInputParse is returned when the input is neither an existing file
	// nor a decimal identifier.
	ErrInputParse = errors.New("input is neither a file nor a valid identifier")

	// ErrNoTargets is returned when a target file holds no valid identifier.
	ErrNoTargets = errors.New("no valid target found")
)

// ParseIdentifier parses a decimal, non-negative identifier. Surrounding
// whitespace is ignored. ParseUint already rejects signs and underscores.
func ParseIdentifier(s string) (types.Identifier, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q: %w", s, err)
	}
	return types.Identifier(n), nil
}

// Resolve classifies input and builds the target set. An existing regular
// file is read one identifier per line; anything else must itself parse as
// an identifier. Lines that do not parse are recorded as skipped.
func Resolve(input string) (types.TargetSet, error) {
	if !isFile(input) {
		id, err := ParseIdentifier(input)
		if err != nil {
			return types.TargetSet{}, fmt.Errorf("%w: %q", ErrInputParse, input)
		}
		return types.TargetSet{
			Kind:  types.InputSingle,
			Input: input,
			IDs:   []types.Identifier{id},
		}, nil
	}

	lines, err := ReadFile(input)
	if err != nil {
		return types.TargetSet{}, err
	}

	set := types.TargetSet{Kind: types.InputFile, Input: input, Lines: lines}
	for _, l := range lines {
		if l.Parsed {
			set.IDs = append(set.IDs, l.ID)
		}
	}
	if len(set.IDs) == 0 {
		return set, fmt.Errorf("%w in %s", ErrNoTargets, input)
	}
	return set, nil
}

// ReadFile reads path line by line and reports, for every line, whether it
// parsed as an identifier. Lines may be of any length.
func ReadFile(path string) ([]types.LineOutcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening target file: %w", err)
	}
	defer f.Close()

	var lines []types.LineOutcome
	r := bufio.NewReader(f)
	for n := 1; ; n++ {
		raw, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading target file: %w", err)
		}
		if raw == "" && err == io.EOF {
			break
		}
		text := strings.TrimRight(raw, "\r\n")
		outcome := types.LineOutcome{Line: n, Text: text}
		if id, perr := ParseIdentifier(text); perr == nil {
			outcome.ID = id
			outcome.Parsed = true
		}
		lines = append(lines, outcome)
		if err == io.EOF {
			break
		}
	}
	return lines, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
