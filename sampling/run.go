package sampling

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JaechanAnUMD/merkletree-demo/attest"
	"github.com/JaechanAnUMD/merkletree-demo/digest"
)

var ErrJournalMismatch = errors.New("journal does not match the sampled input")

// Result is the outcome of a successful Run.
type Result struct {
	Key     int64
	Input   attest.Input
	Journal string
	Roots   []digest.Digest
	Receipt *attest.Receipt
}

// Run samples key across the comparator's trees, proves the sampled tuple
// and verifies the receipt against programID. Any failure is final.
func Run(ctx context.Context, cmp *Comparator, prover attest.Prover, verifier attest.Verifier, programID digest.Digest, key int64) (Result, error) {
	in := cmp.Sample(key)
	cmp.log.Info("sampled key",
		zap.Int64("key", key),
		zap.String("values", in.Journal()))

	receipt, err := prover.Prove(ctx, in)
	if err != nil {
		return Result{}, fmt.Errorf("prove: %w", err)
	}
	if err := verifier.Verify(receipt, programID); err != nil {
		return Result{}, fmt.Errorf("verify: %w", err)
	}
	journal, err := receipt.DecodeJournal()
	if err != nil {
		return Result{}, err
	}
	if journal != in.Journal() {
		return Result{}, fmt.Errorf("%w: got %q, want %q", ErrJournalMismatch, journal, in.Journal())
	}
	cmp.log.Info("receipt verified",
		zap.String("journal", journal),
		zap.Stringer("program_id", programID))

	return Result{
		Key:     key,
		Input:   in,
		Journal: journal,
		Roots:   cmp.Roots(),
		Receipt: receipt,
	}, nil
}
