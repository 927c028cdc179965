package tree

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	merkle "github.com/JaechanAnUMD/merkletree-demo"
	"github.com/JaechanAnUMD/merkletree-demo/attest"
	"github.com/JaechanAnUMD/merkletree-demo/cli/options"
	"github.com/JaechanAnUMD/merkletree-demo/sampling"
)

var (
	sizeFlag = &cli.IntFlag{
		Name:  "size",
		Usage: "number of keys of the generated letter dataset (defaults to Dataset.Size)",
	}
	offsetFlag = &cli.Int64Flag{
		Name:  "offset",
		Usage: "letter offset of the generated dataset",
	}
	datasetFlag = &cli.StringFlag{
		Name:  "dataset",
		Usage: "JSON file with {\"key\": \"char\"} entries, replaces the generated dataset",
	}
	keyFlag = &cli.Int64Flag{
		Name:     "key",
		Aliases:  []string{"k"},
		Usage:    "leaf key",
		Required: true,
	}
)

var datasetFlags = []cli.Flag{sizeFlag, offsetFlag, datasetFlag}

// NewCommands returns the 'tree' command.
func NewCommands() []*cli.Command {
	return []*cli.Command{{
		Name:  "tree",
		Usage: "Build a Merkle tree over a dataset and inspect it",
		Subcommands: []*cli.Command{
			{
				Name:   "dump",
				Usage:  "Print the whole tree",
				Flags:  datasetFlags,
				Action: dump,
			},
			{
				Name:   "root",
				Usage:  "Print the root digest",
				Flags:  datasetFlags,
				Action: root,
			},
			{
				Name:   "path",
				Usage:  "Print the digest trail from a leaf to the root",
				Flags:  append([]cli.Flag{keyFlag}, datasetFlags...),
				Action: path,
			},
			{
				Name:   "prove",
				Usage:  "Print and check an inclusion proof for a leaf",
				Flags:  append([]cli.Flag{keyFlag}, datasetFlags...),
				Action: prove,
			},
			{
				Name:      "sample",
				Usage:     "Read several keys from one tree",
				ArgsUsage: "KEY KEY KEY",
				Flags:     datasetFlags,
				Action:    sample,
			},
		},
	}}
}

func build(ctx *cli.Context) (*merkle.Tree, error) {
	cfg, log, err := options.Setup(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()

	opts, err := cfg.TreeOptions()
	if err != nil {
		return nil, cli.Exit(err, 1)
	}

	var d sampling.Dataset
	if path := ctx.String(datasetFlag.Name); path != "" {
		d, err = sampling.LoadDataset(path)
		if err != nil {
			return nil, cli.Exit(err, 1)
		}
	} else {
		size := cfg.Dataset.Size
		if ctx.IsSet(sizeFlag.Name) {
			size = ctx.Int(sizeFlag.Name)
		}
		if size < 0 {
			return nil, cli.Exit(fmt.Errorf("invalid size %d", size), 1)
		}
		d = sampling.LetterDataset(size, ctx.Int64(offsetFlag.Name))
	}

	t := merkle.New(opts...)
	t.InsertMany(d.Entries()...)
	log.Debug("tree built", zap.Int("leaves", t.Len()))
	return t, nil
}

func dump(ctx *cli.Context) error {
	t, err := build(ctx)
	if err != nil {
		return err
	}
	return t.Fprint(ctx.App.Writer)
}

func root(ctx *cli.Context) error {
	t, err := build(ctx)
	if err != nil {
		return err
	}
	r, ok := t.Root()
	if !ok {
		return cli.Exit(merkle.ErrEmptyTree, 1)
	}
	fmt.Fprintln(ctx.App.Writer, r)
	return nil
}

func path(ctx *cli.Context) error {
	t, err := build(ctx)
	if err != nil {
		return err
	}
	key := ctx.Int64(keyFlag.Name)
	trail := t.PathToRoot(key)
	if trail == nil {
		return cli.Exit(fmt.Errorf("%w: %d", merkle.ErrKeyNotFound, key), 1)
	}
	fmt.Fprintf(ctx.App.Writer, "value: %c\n", t.Get(key))
	for i, d := range trail {
		fmt.Fprintf(ctx.App.Writer, "%d: %s\n", i, d)
	}
	return nil
}

func prove(ctx *cli.Context) error {
	t, err := build(ctx)
	if err != nil {
		return err
	}
	key := ctx.Int64(keyFlag.Name)
	proof, err := t.Prove(key)
	if err != nil {
		return cli.Exit(err, 1)
	}
	r, _ := t.Root()
	ok := proof.VerifyInclusion(t.Hasher(), key, t.Get(key), r)
	fmt.Fprintln(ctx.App.Writer, proof.String())
	fmt.Fprintf(ctx.App.Writer, "verified: %t\n", ok)
	if !ok {
		return cli.Exit("inclusion proof does not verify", 1)
	}
	return nil
}

func sample(ctx *cli.Context) error {
	if ctx.NArg() != attest.InputLen {
		return cli.Exit(fmt.Sprintf("expected %d keys, got %d", attest.InputLen, ctx.NArg()), 1)
	}
	var keys [attest.InputLen]int64
	for i := range keys {
		k, err := strconv.ParseInt(ctx.Args().Get(i), 10, 64)
		if err != nil {
			return cli.Exit(fmt.Errorf("invalid key %q: %w", ctx.Args().Get(i), err), 1)
		}
		keys[i] = k
	}
	t, err := build(ctx)
	if err != nil {
		return err
	}
	in := sampling.SampleKeys(t, keys)
	fmt.Fprintf(ctx.App.Writer, "keys: %d, %d, %d\n", keys[0], keys[1], keys[2])
	fmt.Fprintf(ctx.App.Writer, "values: %s\n", in.Journal())
	return nil
}
