// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// Identifier is the numeric key of a compound's datasheet in the INRS
// toxicology database (the N in FICHETOX_N).
type Identifier uint64

func (id Identifier) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// InputKind records how the input specifier was interpreted.
type InputKind string

const (
	InputSingle InputKind = "single"
	InputFile   InputKind = "file"
)

// LineOutcome describes one line of a target file. Lines that do not parse
// as an Identifier have Parsed == false and never enter the target set.
type LineOutcome struct {
	Line   int        `json:"line" yaml:"line"`
	Text   string     `json:"text" yaml:"text"`
	ID     Identifier `json:"id,omitempty" yaml:"id,omitempty"`
	Parsed bool       `json:"parsed" yaml:"parsed"`
}

// TargetSet is the ordered list of identifiers to process in one run.
// Duplicates are kept.
type TargetSet struct {
	Kind  InputKind     `json:"kind" yaml:"kind"`
	Input string        `json:"input" yaml:"input"`
	IDs   []Identifier  `json:"ids" yaml:"ids"`
	Lines []LineOutcome `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// Skipped returns the file lines that did not parse.
func (s TargetSet) Skipped() []LineOutcome {
	var out []LineOutcome
	for _, l := range s.Lines {
		if !l.Parsed {
			out = append(out, l)
		}
	}
	return out
}
