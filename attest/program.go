package attest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"
	sha256 "github.com/minio/sha256-simd"
	"go.uber.org/zap"

	"github.com/JaechanAnUMD/merkletree-demo/digest"
)

const (
	// ProvingKeyFile and VerifyingKeyFile are the file names used by
	// Program.Save and LoadProgram.
	ProvingKeyFile   = "journal.pk"
	VerifyingKeyFile = "journal.vk"
)

const curve = ecc.BN254

var (
	ErrProgramMismatch = errors.New("program identity mismatch")
	ErrVerification    = errors.New("receipt verification failed")
	ErrMalformedSeal   = errors.New("malformed seal")
)

// Prover produces receipts for private inputs.
type Prover interface {
	Prove(ctx context.Context, in Input) (*Receipt, error)
}

// Verifier checks a receipt against the identity of the program that is
// expected to have produced it.
type Verifier interface {
	Verify(r *Receipt, programID digest.Digest) error
}

var (
	_ Prover   = (*Program)(nil)
	_ Verifier = (*Program)(nil)
)

// Program is the compiled journal circuit with its groth16 keys.
type Program struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
	id  digest.Digest
	log *zap.Logger
}

// NewProgram compiles the circuit and runs a fresh groth16 setup. Every
// call yields a different program identity; use Save and LoadProgram to
// keep one.
func NewProgram(log *zap.Logger) (*Program, error) {
	ccs, err := compile()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}
	p, err := newProgram(ccs, pk, vk, log)
	if err != nil {
		return nil, err
	}
	p.log.Debug("groth16 setup done",
		zap.Int("constraints", ccs.GetNbConstraints()),
		zap.Duration("took", time.Since(start)),
		zap.Stringer("program_id", p.id))
	return p, nil
}

// LoadProgram compiles the circuit and reads the keys written by Save from
// dir.
func LoadProgram(dir string, log *zap.Logger) (*Program, error) {
	ccs, err := compile()
	if err != nil {
		return nil, err
	}
	pk := groth16.NewProvingKey(curve)
	if err := readKey(filepath.Join(dir, ProvingKeyFile), pk); err != nil {
		return nil, err
	}
	vk := groth16.NewVerifyingKey(curve)
	if err := readKey(filepath.Join(dir, VerifyingKeyFile), vk); err != nil {
		return nil, err
	}
	p, err := newProgram(ccs, pk, vk, log)
	if err != nil {
		return nil, err
	}
	p.log.Debug("loaded program keys", zap.String("dir", dir), zap.Stringer("program_id", p.id))
	return p, nil
}

func newProgram(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, vk groth16.VerifyingKey, log *zap.Logger) (*Program, error) {
	if log == nil {
		log = zap.NewNop()
	}
	id, err := verifyingKeyID(vk)
	if err != nil {
		return nil, err
	}
	return &Program{ccs: ccs, pk: pk, vk: vk, id: id, log: log}, nil
}

func compile() (constraint.ConstraintSystem, error) {
	// gnark logs every compilation through its own logger
	logger.Disable()
	var circuit journalCircuit
	ccs, err := frontend.Compile(curve.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return nil, fmt.Errorf("compile journal circuit: %w", err)
	}
	return ccs, nil
}

func verifyingKeyID(vk groth16.VerifyingKey) (digest.Digest, error) {
	var buf bytes.Buffer
	if _, err := vk.WriteTo(&buf); err != nil {
		return digest.Digest{}, fmt.Errorf("serialize verifying key: %w", err)
	}
	return sha256.Sum256(buf.Bytes()), nil
}

// ID is the program identity receipts are bound to.
func (p *Program) ID() digest.Digest {
	return p.id
}

// Save writes the proving and verifying keys to dir, creating it if needed.
func (p *Program) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create key dir: %w", err)
	}
	if err := writeKey(filepath.Join(dir, ProvingKeyFile), p.pk); err != nil {
		return err
	}
	return writeKey(filepath.Join(dir, VerifyingKeyFile), p.vk)
}

// Prove runs the prover on in. The proof engine itself cannot be
// interrupted; on cancellation Prove returns ctx.Err() without waiting for
// it.
func (p *Program) Prove(ctx context.Context, in Input) (*Receipt, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		seal []byte
		err  error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		seal, err := p.prove(in)
		done <- result{seal, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		p.log.Debug("proof generated",
			zap.Duration("took", time.Since(start)),
			zap.Int("seal_size", len(res.seal)))
		return &Receipt{
			Journal:   []byte(in.Journal()),
			Seal:      res.seal,
			ProgramID: p.id.Bytes(),
		}, nil
	}
}

func (p *Program) prove(in Input) ([]byte, error) {
	w, err := frontend.NewWitness(newAssignment(in), curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("build witness: %w", err)
	}
	proof, err := groth16.Prove(p.ccs, p.pk, w)
	if err != nil {
		return nil, fmt.Errorf("groth16 prove: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize proof: %w", err)
	}
	return buf.Bytes(), nil
}

// Verify checks that r was produced by the program identified by
// programID, which must also be the identity of p.
func (p *Program) Verify(r *Receipt, programID digest.Digest) error {
	if r == nil {
		return fmt.Errorf("%w: nil receipt", ErrVerification)
	}
	if !bytes.Equal(r.ProgramID, programID[:]) {
		return fmt.Errorf("%w: receipt is bound to %x, expected %s", ErrProgramMismatch, r.ProgramID, programID)
	}
	if p.id != programID {
		return fmt.Errorf("%w: verifier holds %s, expected %s", ErrProgramMismatch, p.id, programID)
	}
	in, err := DecodeJournal(r.Journal)
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedJournal, err)
	}

	proof := groth16.NewProof(curve)
	if _, err := proof.ReadFrom(bytes.NewReader(r.Seal)); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSeal, err)
	}
	public, err := frontend.NewWitness(publicAssignment(in), curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("build public witness: %w", err)
	}
	if err := groth16.Verify(proof, p.vk, public); err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}
	p.log.Debug("receipt verified", zap.String("journal", string(r.Journal)))
	return nil
}

type keyWriter interface {
	WriteTo(w io.Writer) (int64, error)
}

type keyReader interface {
	ReadFrom(r io.Reader) (int64, error)
}

func writeKey(path string, k keyWriter) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create key file: %w", err)
	}
	if _, err := k.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return f.Close()
}

func readKey(path string, k keyReader) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open key file: %w", err)
	}
	defer f.Close()
	if _, err := k.ReadFrom(f); err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	return nil
}
