package attest

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/JaechanAnUMD/merkletree-demo/digest"
)

var (
	sharedOnce    sync.Once
	sharedProgram *Program
	sharedErr     error
)

// testProgram returns a program shared by all tests of the package, the
// setup is the slow part.
func testProgram(t *testing.T) *Program {
	sharedOnce.Do(func() {
		sharedProgram, sharedErr = NewProgram(nil)
	})
	require.NoError(t, sharedErr)
	return sharedProgram
}

func TestProgram_ProveVerify(t *testing.T) {
	p := testProgram(t)
	in := Input{'K', 'L', 'M'}

	r, err := p.Prove(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []byte("KLM"), r.Journal)
	assert.Equal(t, p.ID().Bytes(), r.ProgramID)
	assert.NotEmpty(t, r.Seal)

	require.NoError(t, p.Verify(r, p.ID()))
	journal, err := r.DecodeJournal()
	require.NoError(t, err)
	assert.Equal(t, "KLM", journal)
}

func TestProgram_Verify_Failures(t *testing.T) {
	p := testProgram(t)
	r, err := p.Prove(context.Background(), Input{'A', 'B', 'C'})
	require.NoError(t, err)

	other := digest.Digest{0xde, 0xad}
	tests := []struct {
		name    string
		mutate  func(r *Receipt)
		id      digest.Digest
		wantErr error
	}{
		{"unexpected program id", func(*Receipt) {}, other, ErrProgramMismatch},
		{"receipt bound to other program", func(r *Receipt) { r.ProgramID = other.Bytes() }, p.ID(), ErrProgramMismatch},
		{"journal swapped", func(r *Receipt) { r.Journal = []byte("ABD") }, p.ID(), ErrVerification},
		{"journal too long", func(r *Receipt) { r.Journal = []byte("ABCD") }, p.ID(), ErrMalformedJournal},
		{"truncated seal", func(r *Receipt) { r.Seal = r.Seal[:len(r.Seal)/2] }, p.ID(), ErrMalformedSeal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Receipt{
				Journal:   append([]byte(nil), r.Journal...),
				Seal:      append([]byte(nil), r.Seal...),
				ProgramID: append([]byte(nil), r.ProgramID...),
			}
			tt.mutate(c)
			require.ErrorIs(t, p.Verify(c, tt.id), tt.wantErr)
		})
	}
	require.ErrorIs(t, p.Verify(nil, p.ID()), ErrVerification)
}

func TestProgram_Prove_Errors(t *testing.T) {
	p := testProgram(t)

	_, err := p.Prove(context.Background(), Input{'A', 0xD800, 'C'})
	require.ErrorIs(t, err, ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Prove(ctx, Input{'A', 'B', 'C'})
	require.ErrorIs(t, err, context.Canceled)
}

func TestProgram_SaveLoad(t *testing.T) {
	p := testProgram(t)
	dir := filepath.Join(t.TempDir(), "keys")
	require.NoError(t, p.Save(dir))

	loaded, err := LoadProgram(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, p.ID(), loaded.ID())

	r, err := p.Prove(context.Background(), Input{'Q', 'R', 'S'})
	require.NoError(t, err)
	require.NoError(t, loaded.Verify(r, p.ID()))

	r2, err := loaded.Prove(context.Background(), Input{'T', 'U', 'V'})
	require.NoError(t, err)
	require.NoError(t, p.Verify(r2, loaded.ID()))

	_, err = LoadProgram(t.TempDir(), nil)
	require.Error(t, err)
}

func TestProgram_FreshSetupsDiffer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping second groth16 setup in short mode")
	}
	p := testProgram(t)
	q, err := NewProgram(nil)
	require.NoError(t, err)
	require.NotEqual(t, p.ID(), q.ID())

	r, err := q.Prove(context.Background(), Input{'A', 'B', 'C'})
	require.NoError(t, err)
	require.ErrorIs(t, p.Verify(r, q.ID()), ErrProgramMismatch)
}
