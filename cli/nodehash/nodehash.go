package nodehash

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/nspcc-dev/utreexo-go/cli/options"
	"github.com/nspcc-dev/utreexo-go/pkg/accumulator"
	"github.com/nspcc-dev/utreexo-go/pkg/crypto/hash"
	"github.com/urfave/cli"
)

// NewCommands returns node hash commands for the utreexo-go CLI.
func NewCommands() []cli.Command {
	return []cli.Command{
		{
			Name:  "nodehash",
			Usage: "Node hash calculations and conversions",
			Subcommands: []cli.Command{
				{
					Name:      "parent",
					Usage:     "Compute the parent hash of two nodes",
					UsageText: "parent <left> <right>",
					Description: `Prints the parent hash of the given children. Every argument is either
   a 64-character hex digest or one of "empty" and "placeholder" literals,
   the latter two are hashed as 32 zero bytes.
`,
					Action: parent,
				},
				{
					Name:      "encode",
					Usage:     "Print the binary encoding of a node hash in hex",
					UsageText: "encode <hash>",
					Action:    encode,
				},
				{
					Name:      "decode",
					Usage:     "Decode a hex-encoded binary node hash record",
					UsageText: "decode <hex>",
					Action:    decode,
				},
				{
					Name:      "leaf",
					Usage:     "Hash arbitrary data into a leaf node hash",
					UsageText: "leaf [--alg <algorithm>] [--hex] <data>",
					Action:    leaf,
					Flags: []cli.Flag{
						cli.StringFlag{
							Name:  "alg, a",
							Usage: fmt.Sprintf("hash algorithm: %s, %s or %s", hash.AlgSha256, hash.AlgSha3_256, hash.AlgBlake2b256),
							Value: hash.AlgSha256,
						},
						cli.BoolFlag{
							Name:  "hex",
							Usage: "treat data as hex-encoded bytes",
						},
					},
				},
			},
		},
	}
}

func parent(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.NewExitError(errors.New("two node hashes expected"), 1)
	}
	left, err := options.ParseNodeHash(ctx.Args().Get(0))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid left hash: %w", err), 1)
	}
	right, err := options.ParseNodeHash(ctx.Args().Get(1))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid right hash: %w", err), 1)
	}
	fmt.Fprintln(ctx.App.Writer, accumulator.ParentHash(left, right))
	return nil
}

func encode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError(errors.New("node hash expected"), 1)
	}
	h, err := options.ParseNodeHash(ctx.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	b, err := h.MarshalBinary()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(b))
	return nil
}

func decode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError(errors.New("hex-encoded record expected"), 1)
	}
	b, err := hex.DecodeString(ctx.Args().Get(0))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid hex: %w", err), 1)
	}
	var h accumulator.NodeHash
	if err := h.UnmarshalBinary(b); err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "%s %s\n", h.Kind(), h)
	return nil
}

func leaf(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError(errors.New("data expected"), 1)
	}
	f, err := hash.LeafFuncByName(ctx.String("alg"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	data := []byte(ctx.Args().Get(0))
	if ctx.Bool("hex") {
		data, err = hex.DecodeString(ctx.Args().Get(0))
		if err != nil {
			return cli.NewExitError(fmt.Errorf("invalid hex: %w", err), 1)
		}
	}
	fmt.Fprintln(ctx.App.Writer, accumulator.New(f(data)))
	return nil
}
