package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nspcc-dev/utreexo-go/cli/options"
	"github.com/nspcc-dev/utreexo-go/pkg/accumulator"
	"github.com/nspcc-dev/utreexo-go/pkg/core/nodestore"
	"github.com/nspcc-dev/utreexo-go/pkg/core/storage"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// dumpEntry is a single line of the dump command output.
type dumpEntry struct {
	Position uint64               `json:"position"`
	Hash     accumulator.NodeHash `json:"hash"`
}

// NewCommands returns node store commands for the utreexo-go CLI.
func NewCommands() []cli.Command {
	return []cli.Command{
		{
			Name:  "store",
			Usage: "Manage node hashes kept in the configured database",
			Subcommands: []cli.Command{
				{
					Name:      "put",
					Usage:     "Store a node hash at the given position",
					UsageText: "put [--config-file <file>] <position> <hash>",
					Description: `Stores the node hash at the position. The hash is either a 64-character
   hex digest or one of "empty" and "placeholder" literals. Storing an empty
   hash removes the record.
`,
					Action: put,
					Flags:  options.Config,
				},
				{
					Name:      "get",
					Usage:     "Print the node hash at the given position",
					UsageText: "get [--config-file <file>] <position>",
					Action:    get,
					Flags:     options.Config,
				},
				{
					Name:      "parent",
					Usage:     "Compute the parent of two stored nodes and store it",
					UsageText: "parent [--config-file <file>] <left> <right> <dst>",
					Action:    parent,
					Flags:     options.Config,
				},
				{
					Name:      "dump",
					Usage:     "Print all stored node hashes as JSON lines",
					UsageText: "dump [--config-file <file>]",
					Action:    dump,
					Flags:     options.Config,
				},
			},
		},
	}
}

// openNodeStore creates a node store and a logger using the configuration
// given in the context.
func openNodeStore(ctx *cli.Context) (*nodestore.Store, *zap.Logger, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, nil, cli.NewExitError(err, 1)
	}
	log, _, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return nil, nil, cli.NewExitError(err, 1)
	}
	db, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	if err != nil {
		return nil, nil, cli.NewExitError(fmt.Errorf("could not initialize storage: %w", err), 1)
	}
	ns, err := nodestore.New(db, cfg.ApplicationConfiguration.NodeStore, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, cli.NewExitError(err, 1)
	}
	log.Debug("node store opened", zap.String("db", cfg.ApplicationConfiguration.DBConfiguration.Type))
	return ns, log, nil
}

func closeNodeStore(ns *nodestore.Store, log *zap.Logger) {
	if err := ns.Close(); err != nil {
		log.Error("failed to close node store", zap.Error(err))
	}
	_ = log.Sync()
}

func parsePosition(s string) (uint64, error) {
	pos, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return pos, nil
}

func put(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.NewExitError(errors.New("position and node hash expected"), 1)
	}
	pos, err := parsePosition(ctx.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	h, err := options.ParseNodeHash(ctx.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	ns, log, err := openNodeStore(ctx)
	if err != nil {
		return err
	}
	defer closeNodeStore(ns, log)

	if err := ns.Put(pos, h); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func get(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError(errors.New("position expected"), 1)
	}
	pos, err := parsePosition(ctx.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	ns, log, err := openNodeStore(ctx)
	if err != nil {
		return err
	}
	defer closeNodeStore(ns, log)

	h, err := ns.Get(pos)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "%s %s\n", h.Kind(), h)
	return nil
}

func parent(ctx *cli.Context) error {
	if ctx.NArg() != 3 {
		return cli.NewExitError(errors.New("left, right and destination positions expected"), 1)
	}
	var positions [3]uint64
	for i := range positions {
		var err error
		positions[i], err = parsePosition(ctx.Args().Get(i))
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	ns, log, err := openNodeStore(ctx)
	if err != nil {
		return err
	}
	defer closeNodeStore(ns, log)

	h, err := ns.Parent(positions[0], positions[1], positions[2])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, h)
	return nil
}

func dump(ctx *cli.Context) error {
	if ctx.NArg() != 0 {
		return cli.NewExitError(errors.New("unexpected arguments"), 1)
	}
	ns, log, err := openNodeStore(ctx)
	if err != nil {
		return err
	}
	defer closeNodeStore(ns, log)

	var (
		enc    = json.NewEncoder(ctx.App.Writer)
		encErr error
		count  int
	)
	err = ns.Iterate(func(pos uint64, h accumulator.NodeHash) bool {
		encErr = enc.Encode(dumpEntry{Position: pos, Hash: h})
		count++
		return encErr == nil
	})
	if err == nil {
		err = encErr
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Debug("node store dumped", zap.Int("count", count))
	return nil
}
