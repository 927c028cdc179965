package attest

import (
	"testing"

	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalCircuit_IsSolved(t *testing.T) {
	var circuit journalCircuit
	for _, in := range []Input{{'A', 'B', 'C'}, {'Z', 'A', 'B'}, {0, 0, 0}, {'é', '世', '🙂'}} {
		err := test.IsSolved(&circuit, newAssignment(in), curve.ScalarField())
		require.NoError(t, err, "input %q", in.Journal())
	}
}

func TestJournalCircuit_NotSolved(t *testing.T) {
	var circuit journalCircuit

	wrongJournal := newAssignment(Input{'A', 'B', 'C'})
	wrongJournal.Journal = Input{'A', 'B', 'D'}.pack()
	require.Error(t, test.IsSolved(&circuit, wrongJournal, curve.ScalarField()))

	// 'A'+2^21 in the middle slot and one less in the first slot packs to
	// the same value as "ABC"; the range check must reject it.
	overflow := newAssignment(Input{'A', 'B', 'C'})
	overflow.Input[0] = uint64('A' - 1)
	overflow.Input[1] = uint64('B') + 1<<runeBits
	require.Error(t, test.IsSolved(&circuit, overflow, curve.ScalarField()))
}

func TestJournalCircuit_Prover(t *testing.T) {
	a := test.NewAssert(t)
	var circuit journalCircuit
	a.ProverSucceeded(&circuit, newAssignment(Input{'X', 'Y', 'Z'}),
		test.WithCurves(curve), test.WithBackends(backend.GROTH16))

	bad := newAssignment(Input{'X', 'Y', 'Z'})
	bad.Journal = Input{'X', 'Y', 'Y'}.pack()
	a.ProverFailed(&circuit, bad, test.WithCurves(curve), test.WithBackends(backend.GROTH16))
}

func TestInput_Journal(t *testing.T) {
	assert.Equal(t, "XYZ", Input{'X', 'Y', 'Z'}.Journal())
	assert.Equal(t, "é世🙂", Input{'é', '世', '🙂'}.Journal())
}

func TestInput_Validate(t *testing.T) {
	require.NoError(t, Input{'A', 'B', 'C'}.Validate())
	require.ErrorIs(t, Input{'A', -1, 'C'}.Validate(), ErrInvalidInput)
	require.ErrorIs(t, Input{'A', 0xD800, 'C'}.Validate(), ErrInvalidInput)
	require.ErrorIs(t, Input{'A', 0x110000, 'C'}.Validate(), ErrInvalidInput)
}

func TestDecodeJournal(t *testing.T) {
	tests := []struct {
		name    string
		journal []byte
		want    Input
		wantErr bool
	}{
		{"ascii", []byte("ABC"), Input{'A', 'B', 'C'}, false},
		{"multibyte", []byte("é世🙂"), Input{'é', '世', '🙂'}, false},
		{"too short", []byte("AB"), Input{}, true},
		{"too long", []byte("ABCD"), Input{}, true},
		{"empty", nil, Input{}, true},
		{"invalid utf8", []byte{'A', 0xff, 'C'}, Input{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJournal(tt.journal)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedJournal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInput_Pack(t *testing.T) {
	assert.Equal(t, uint64('A')<<42|uint64('B')<<21|uint64('C'), Input{'A', 'B', 'C'}.pack())
	assert.NotEqual(t, Input{'A', 'B', 'C'}.pack(), Input{'C', 'B', 'A'}.pack())
}
