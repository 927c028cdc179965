package attest

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/consensys/gnark/frontend"
)

// InputLen is the number of characters in an Input tuple.
const InputLen = 3

// runeBits is enough bits to hold any Unicode code point (max 0x10FFFF).
const runeBits = 21

var (
	ErrInvalidInput     = errors.New("invalid attestation input")
	ErrMalformedJournal = errors.New("malformed journal")
)

// Input is the private tuple handed to the prover.
type Input [InputLen]rune

// Validate returns ErrInvalidInput if any element is not a valid Unicode
// scalar value.
func (in Input) Validate() error {
	for i, r := range in {
		if !utf8.ValidRune(r) {
			return fmt.Errorf("%w: element %d (%U) is not a valid rune", ErrInvalidInput, i, r)
		}
	}
	return nil
}

// Journal returns the public output committed for in: the UTF-8
// concatenation of its characters.
func (in Input) Journal() string {
	return string(in[:])
}

// DecodeJournal is the inverse of Input.Journal.
func DecodeJournal(journal []byte) (Input, error) {
	var in Input
	if !utf8.Valid(journal) {
		return in, fmt.Errorf("%w: not valid UTF-8", ErrMalformedJournal)
	}
	if n := utf8.RuneCount(journal); n != InputLen {
		return in, fmt.Errorf("%w: got %d characters, want %d", ErrMalformedJournal, n, InputLen)
	}
	for i := range in {
		r, size := utf8.DecodeRune(journal)
		in[i] = r
		journal = journal[size:]
	}
	return in, nil
}

// pack folds the characters into a single field element, first character
// in the most significant position.
func (in Input) pack() uint64 {
	var acc uint64
	for _, r := range in {
		acc = acc<<runeBits | uint64(r)
	}
	return acc
}

// journalCircuit proves knowledge of InputLen characters, each fitting in
// runeBits, whose packed value equals the public Journal.
type journalCircuit struct {
	Input   [InputLen]frontend.Variable `gnark:",secret"`
	Journal frontend.Variable           `gnark:",public"`
}

func (c *journalCircuit) Define(api frontend.API) error {
	var acc frontend.Variable = 0
	for i := range c.Input {
		// range check, also rules out wrap-around in the field
		api.ToBinary(c.Input[i], runeBits)
		acc = api.Add(api.Mul(acc, 1<<runeBits), c.Input[i])
	}
	api.AssertIsEqual(acc, c.Journal)
	return nil
}

func newAssignment(in Input) *journalCircuit {
	var a journalCircuit
	for i, r := range in {
		a.Input[i] = uint64(r)
	}
	a.Journal = in.pack()
	return &a
}

// publicAssignment carries only the journal; secret inputs are zero and
// ignored when a public-only witness is built.
func publicAssignment(in Input) *journalCircuit {
	a := journalCircuit{Journal: in.pack()}
	for i := range a.Input {
		a.Input[i] = 0
	}
	return &a
}
