/*
Package codec implements ABI message commands for the CLI.
*/
package codec

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/tvmkit/tvmabi/cli/options"
	"github.com/tvmkit/tvmabi/pkg/abi"
	"github.com/tvmkit/tvmabi/pkg/abi/schema"
	"github.com/tvmkit/tvmabi/pkg/codec"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// NewCommands returns ABI codec commands for the CLI.
func NewCommands() []cli.Command {
	encodeFlags := append([]cli.Flag{cli.BoolFlag{
		Name:  "answer",
		Usage: "Encode an answer (output) message instead of a call",
	}}, options.Common...)
	decodeFlags := append([]cli.Flag{cli.BoolFlag{
		Name:  "answer",
		Usage: "Decode the body as an answer (output) message",
	}}, options.Common...)
	return []cli.Command{
		{
			Name:      "inspect",
			Usage:     "Print functions and events of a contract ABI with their selectors",
			UsageText: "tvmabi inspect --abi contract.abi.json",
			Action:    inspect,
			Flags:     options.Common,
		},
		{
			Name:      "selector",
			Usage:     "Print input and output selectors of a method",
			UsageText: "tvmabi selector --abi contract.abi.json <method>",
			ArgsUsage: "<method>",
			Action:    selector,
			Flags:     options.Common,
		},
		{
			Name:      "encode",
			Usage:     "Encode a message body for a method call",
			UsageText: "tvmabi encode --abi contract.abi.json <method> <json-args>",
			ArgsUsage: "<method> <json-args>",
			Action:    encodeBody,
			Flags:     encodeFlags,
		},
		{
			Name:      "decode",
			Usage:     "Decode a message body",
			UsageText: "tvmabi decode --abi contract.abi.json <method> <hex-body>",
			ArgsUsage: "<method> <hex-body>",
			Action:    decodeBody,
			Flags:     decodeFlags,
		},
		{
			Name:      "decode-event",
			Usage:     "Decode an event message body",
			UsageText: "tvmabi decode-event --abi contract.abi.json <event> <hex-body>",
			ArgsUsage: "<event> <hex-body>",
			Action:    decodeEvent,
			Flags:     options.Common,
		},
		{
			Name:  "state",
			Usage: "Encode and decode persistent contract state",
			Subcommands: []cli.Command{
				{
					Name:      "encode",
					Usage:     "Encode contract state fields",
					UsageText: "tvmabi state encode --abi contract.abi.json <json-args>",
					ArgsUsage: "<json-args>",
					Action:    stateEncode,
					Flags:     options.Common,
				},
				{
					Name:      "decode",
					Usage:     "Decode contract state fields",
					UsageText: "tvmabi state decode --abi contract.abi.json <hex-data>",
					ArgsUsage: "<hex-data>",
					Action:    stateDecode,
					Flags:     options.Common,
				},
			},
		},
	}
}

// setup loads the tool configuration, builds a logger and parses the
// contract ABI named by the --abi flag.
func setup(ctx *cli.Context) (*zap.Logger, *schema.Definition, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	log, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return nil, nil, err
	}

	path := ctx.String("abi")
	if path == "" {
		return nil, nil, errors.New("missing --abi flag")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("can't read ABI: %w", err)
	}

	size := cfg.ApplicationConfiguration.SchemaCacheSize
	if size <= 0 {
		size = schema.DefaultCacheSize
	}
	d, err := schema.NewRegistry(size).Definition(data)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("ABI loaded",
		zap.String("path", path),
		zap.Uint8("version", d.Version),
		zap.Int("functions", len(d.Functions)),
		zap.Int("events", len(d.Events)))
	return log, d, nil
}

func inspect(ctx *cli.Context) error {
	_, d, err := setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	tw := tabwriter.NewWriter(ctx.App.Writer, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "ABI version:\t%s\n", d.VersionString)
	if len(d.Functions) > 0 {
		fmt.Fprintln(tw, "Functions:")
		for i := range d.Functions {
			f := &d.Functions[i]
			fmt.Fprintf(tw, "\t%s\tin 0x%08x\tout 0x%08x\t%s\n",
				f.Name, f.InputID(), f.OutputID(), f.Signature(d.Version))
		}
	}
	if len(d.Events) > 0 {
		fmt.Fprintln(tw, "Events:")
		for i := range d.Events {
			e := &d.Events[i]
			fmt.Fprintf(tw, "\t%s\t0x%08x\t\t%s\n", e.Name, e.ID, e.Signature(d.Version))
		}
	}
	if len(d.Data) > 0 {
		fmt.Fprintln(tw, "Data:")
		for i := range d.Data {
			fmt.Fprintf(tw, "\t%s\tkey %d\t\t%s\n", d.Data[i].Name, d.Data[i].Key, d.Data[i].Type)
		}
	}
	if len(d.Fields) > 0 {
		fmt.Fprintln(tw, "Fields:")
		for i := range d.Fields {
			fmt.Fprintf(tw, "\t%s\t\t\t%s\n", d.Fields[i].Name, d.Fields[i].Type)
		}
	}
	return tw.Flush()
}

func selector(ctx *cli.Context) error {
	_, d, err := setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("method name is missing", 1)
	}
	f := d.GetFunction(args[0])
	if f == nil {
		return cli.NewExitError(fmt.Errorf("%w: %s", schema.ErrMethodNotFound, args[0]), 1)
	}
	fmt.Fprintf(ctx.App.Writer, "input:  0x%08x\noutput: 0x%08x\n", f.InputID(), f.OutputID())
	return nil
}

func encodeBody(ctx *cli.Context) error {
	log, d, err := setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("method name is missing", 1)
	}
	f := d.GetFunction(args[0])
	if f == nil {
		return cli.NewExitError(fmt.Errorf("%w: %s", schema.ErrMethodNotFound, args[0]), 1)
	}

	dir, params := codec.Input, f.Inputs
	if ctx.Bool("answer") {
		dir, params = codec.Output, f.Outputs
	}
	vals, err := argValues(params, ctx.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	body, err := codec.Encode(f, dir, vals)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Debug("message encoded", zap.String("method", f.Name), zap.Int("size", len(body)))
	fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(body))
	return nil
}

func decodeBody(ctx *cli.Context) error {
	log, d, err := setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	args := ctx.Args()
	if len(args) < 2 {
		return cli.NewExitError("method name or body is missing", 1)
	}
	f := d.GetFunction(args[0])
	if f == nil {
		return cli.NewExitError(fmt.Errorf("%w: %s", schema.ErrMethodNotFound, args[0]), 1)
	}
	body, err := hex.DecodeString(strings.TrimPrefix(args[1], "0x"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid body: %w", err), 1)
	}

	dir, params := codec.Input, f.Inputs
	if ctx.Bool("answer") {
		dir, params = codec.Output, f.Outputs
	}
	vals, err := codec.Decode(f, dir, body)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if vals == nil {
		log.Debug("empty answer", zap.String("method", f.Name))
		fmt.Fprintln(ctx.App.Writer, "null")
		return nil
	}
	return printValues(ctx, params, vals)
}

func decodeEvent(ctx *cli.Context) error {
	_, d, err := setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	args := ctx.Args()
	if len(args) < 2 {
		return cli.NewExitError("event name or body is missing", 1)
	}
	e := d.GetEvent(args[0])
	if e == nil {
		return cli.NewExitError(fmt.Errorf("%w: %s", schema.ErrMethodNotFound, args[0]), 1)
	}
	body, err := hex.DecodeString(strings.TrimPrefix(args[1], "0x"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid body: %w", err), 1)
	}
	vals, err := codec.DecodeEvent(e, body)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return printValues(ctx, e.Inputs, vals)
}

func stateEncode(ctx *cli.Context) error {
	_, d, err := setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	vals, err := argValues(d.Fields, ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	data, err := codec.EncodeParams(d.Fields, vals)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(data))
	return nil
}

func stateDecode(ctx *cli.Context) error {
	_, d, err := setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("state data is missing", 1)
	}
	data, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid state data: %w", err), 1)
	}
	vals, err := codec.DecodeParams(d.Fields, data)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return printValues(ctx, d.Fields, vals)
}

// argValues parses a JSON argument document (an object keyed by parameter
// name or a positional array) into typed values.
func argValues(params []abi.Param, raw string) ([]abi.Value, error) {
	hosts, err := hostArgs(params, raw)
	if err != nil {
		return nil, err
	}
	return codec.FromHostValues(params, hosts)
}

func hostArgs(params []abi.Param, raw string) ([]any, error) {
	if raw == "" {
		if len(params) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("arguments are missing, %d expected", len(params))
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseOrderedObject()
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	switch x := v.(type) {
	case json.OrderedObject:
		byName := make(map[string]any, len(x))
		for i := range x {
			byName[x[i].Key] = x[i].Value
		}
		hosts := make([]any, len(params))
		for i := range params {
			h, ok := byName[params[i].Name]
			if !ok {
				return nil, fmt.Errorf("no value for parameter %q", params[i].Name)
			}
			hosts[i] = h
		}
		return hosts, nil
	case []any:
		return x, nil
	default:
		return nil, errors.New("arguments must be a JSON object or array")
	}
}

func printValues(ctx *cli.Context, params []abi.Param, vals []abi.Value) error {
	out, err := json.MarshalIndent(codec.ToHostValues(params, vals), "", "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}
