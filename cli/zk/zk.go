// Package zk holds the 'attest' commands: key setup, the sampled
// prove-and-verify run and standalone receipt verification.
package zk

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/JaechanAnUMD/merkletree-demo/attest"
	"github.com/JaechanAnUMD/merkletree-demo/cli/options"
	"github.com/JaechanAnUMD/merkletree-demo/config"
	"github.com/JaechanAnUMD/merkletree-demo/digest"
	"github.com/JaechanAnUMD/merkletree-demo/sampling"
)

var (
	outFlag = &cli.StringFlag{
		Name:     "out",
		Usage:    "directory to write the proving and verifying keys to",
		Required: true,
	}
	keyFlag = &cli.Int64Flag{
		Name:    "key",
		Aliases: []string{"k"},
		Usage:   "key to sample (random when omitted)",
	}
	receiptFlag = &cli.StringFlag{
		Name:  "receipt",
		Usage: "receipt file (overrides Attestation.ReceiptPath)",
	}
	keysFlag = &cli.StringFlag{
		Name:  "keys",
		Usage: "directory with keys written by 'attest setup' (overrides Attestation.KeysDir)",
	}
	idFlag = &cli.StringFlag{
		Name:  "id",
		Usage: "expected program identity in hex (defaults to the identity of the loaded keys)",
	}
)

var errNoReceipt = errors.New("no receipt file given, use --receipt or Attestation.ReceiptPath")

// NewCommands returns the 'attest' command.
func NewCommands() []*cli.Command {
	return []*cli.Command{{
		Name:  "attest",
		Usage: "Prove and verify sampled values",
		Subcommands: []*cli.Command{
			{
				Name:   "setup",
				Usage:  "Run a fresh setup and save the program keys",
				Flags:  []cli.Flag{outFlag},
				Action: setup,
			},
			{
				Name:  "run",
				Usage: "Build one tree per dataset offset, sample a key, prove and verify the sampled values",
				UsageText: "merkletree attest run [--key K] [--receipt FILE] [--keys DIR]\n\n" +
					"Without --keys (or Attestation.KeysDir) every run uses a fresh program identity.",
				Flags:  []cli.Flag{keyFlag, receiptFlag, keysFlag},
				Action: run,
			},
			{
				Name:   "verify",
				Usage:  "Verify a receipt file against a program identity",
				Flags:  []cli.Flag{receiptFlag, keysFlag, idFlag},
				Action: verify,
			},
		},
	}}
}

func setup(ctx *cli.Context) error {
	_, log, err := options.Setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := attest.NewProgram(log)
	if err != nil {
		return cli.Exit(err, 1)
	}
	dir := ctx.String(outFlag.Name)
	if err := p.Save(dir); err != nil {
		return cli.Exit(err, 1)
	}
	log.Info("program keys saved", zap.String("dir", dir))
	fmt.Fprintf(ctx.App.Writer, "program id: %s\n", p.ID())
	return nil
}

func loadProgram(ctx *cli.Context, cfg config.Config, log *zap.Logger) (*attest.Program, error) {
	dir := cfg.Attestation.KeysDir
	if ctx.IsSet(keysFlag.Name) {
		dir = ctx.String(keysFlag.Name)
	}
	if dir == "" {
		log.Info("no keys directory configured, running a fresh setup")
		return attest.NewProgram(log)
	}
	return attest.LoadProgram(dir, log)
}

func run(ctx *cli.Context) error {
	cfg, log, err := options.Setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts, err := cfg.TreeOptions()
	if err != nil {
		return cli.Exit(err, 1)
	}
	datasets := make([]sampling.Dataset, len(cfg.Dataset.Offsets))
	for i, off := range cfg.Dataset.Offsets {
		datasets[i] = sampling.LetterDataset(cfg.Dataset.Size, off)
	}
	trees, err := sampling.BuildTrees(ctx.Context, datasets, opts...)
	if err != nil {
		return cli.Exit(err, 1)
	}
	cmp, err := sampling.NewComparator(trees, cfg.Dataset.Seed, log)
	if err != nil {
		return cli.Exit(err, 1)
	}

	var key int64
	if ctx.IsSet(keyFlag.Name) {
		key = ctx.Int64(keyFlag.Name)
	} else if key, err = cmp.RandomKey(); err != nil {
		return cli.Exit(err, 1)
	}

	p, err := loadProgram(ctx, cfg, log)
	if err != nil {
		return cli.Exit(err, 1)
	}

	proveCtx, cancel := options.GetTimeoutContext(ctx, cfg)
	defer cancel()
	res, err := sampling.Run(proveCtx, cmp, p, p, p.ID(), key)
	if err != nil {
		return cli.Exit(err, 1)
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "Random key: %d\n", res.Key)
	for i, r := range res.Roots {
		fmt.Fprintf(w, "root %d: %s\n", i, r)
	}
	fmt.Fprintf(w, "program id: %s\n", p.ID())
	fmt.Fprintf(w, "journal: %s\n", res.Journal)
	fmt.Fprintf(w, "consecutive: %t\n", sampling.IsConsecutive(res.Input))

	path := cfg.Attestation.ReceiptPath
	if ctx.IsSet(receiptFlag.Name) {
		path = ctx.String(receiptFlag.Name)
	}
	if path != "" {
		if err := attest.WriteReceiptFile(path, res.Receipt); err != nil {
			return cli.Exit(err, 1)
		}
		log.Info("receipt written", zap.String("path", path))
	}
	return nil
}

func verify(ctx *cli.Context) error {
	cfg, log, err := options.Setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	path := cfg.Attestation.ReceiptPath
	if ctx.IsSet(receiptFlag.Name) {
		path = ctx.String(receiptFlag.Name)
	}
	if path == "" {
		return cli.Exit(errNoReceipt, 1)
	}
	dir := cfg.Attestation.KeysDir
	if ctx.IsSet(keysFlag.Name) {
		dir = ctx.String(keysFlag.Name)
	}
	if dir == "" {
		return cli.Exit("no keys directory given, use --keys or Attestation.KeysDir", 1)
	}

	p, err := attest.LoadProgram(dir, log)
	if err != nil {
		return cli.Exit(err, 1)
	}
	id := p.ID()
	if s := ctx.String(idFlag.Name); s != "" {
		if id, err = digest.FromHex(s); err != nil {
			return cli.Exit(fmt.Errorf("invalid --id: %w", err), 1)
		}
	}

	r, err := attest.ReadReceiptFile(path)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := p.Verify(r, id); err != nil {
		return cli.Exit(err, 1)
	}
	journal, err := r.DecodeJournal()
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "verified, journal: %s\n", journal)
	return nil
}
