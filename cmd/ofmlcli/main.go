// Package main contains the cli implementation of the tool. It uses cobra
// for cli tool implementation.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ofmlcore/internal/clsast"
	"ofmlcore/internal/core"
	"ofmlcore/internal/engine"
	"ofmlcore/internal/output"
)

type rootFlags struct {
	dataRoot string
	verbose  bool
}

type listFamiliesFlags struct {
	format string
}

type priceFlags struct {
	format    string
	selectors []string
	asOf      string
}

type configureFlags struct {
	format    string
	selectors []string
}

func main() {
	root := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "ofmlcli",
		Short: "OFML product configuration and pricing engine",
	}
	rootCmd.PersistentFlags().StringVar(&root.dataRoot, "data-root", "", "Root directory containing per-manufacturer data (required)")
	rootCmd.PersistentFlags().BoolVar(&root.verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(listFamiliesCmd(root))
	rootCmd.AddCommand(priceCmd(root))
	rootCmd.AddCommand(configureCmd(root))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		log, _ := zap.NewDevelopment()
		return log
	}
	log, _ := zap.NewProduction()
	return log
}

func newEngine(root *rootFlags) (*engine.Engine, *zap.Logger, error) {
	if root.dataRoot == "" {
		return nil, nil, fmt.Errorf("--data-root is required")
	}
	log := newLogger(root.verbose)
	eng, err := engine.New(root.dataRoot, log)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing engine: %w", err)
	}
	return eng, log, nil
}

func listFamiliesCmd(root *rootFlags) *cobra.Command {
	flags := &listFamiliesFlags{}
	cmd := &cobra.Command{
		Use:   "list-families <manufacturer>",
		Short: "List pricable families for a manufacturer",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runListFamilies(root, flags, args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(output.FormatSummary), "Output format: json or summary")
	return cmd
}

func runListFamilies(root *rootFlags, flags *listFamiliesFlags, manufacturer string) error {
	eng, log, err := newEngine(root)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	families, err := eng.ListFamilies(manufacturer)
	if err != nil {
		return fmt.Errorf("listing families: %w", err)
	}
	switch output.Format(flags.format) {
	case output.FormatJSON:
		b, err := json.MarshalIndent(families, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding families: %w", err)
		}
		fmt.Println(string(b))
	case output.FormatSummary:
		for _, f := range families {
			fmt.Printf("%s\t%s\t%s\n", f.Key, f.BaseArticle, f.Label)
		}
	default:
		return fmt.Errorf("unknown format %q", flags.format)
	}
	return nil
}

func priceCmd(root *rootFlags) *cobra.Command {
	flags := &priceFlags{}
	cmd := &cobra.Command{
		Use:   "price <manufacturer> <family>",
		Short: "Calculate the price for a configuration",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPrice(root, flags, args[0], args[1])
		},
	}
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(output.FormatSummary), "Output format: json or summary")
	cmd.Flags().StringArrayVarP(&flags.selectors, "select", "s", nil, "Property assignment NAME=VALUE (repeatable)")
	cmd.Flags().StringVar(&flags.asOf, "as-of", "", "Effective date (RFC3339); defaults to now")
	return cmd
}

func runPrice(root *rootFlags, flags *priceFlags, manufacturer, family string) error {
	eng, log, err := newEngine(root)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	assignment, err := parseSelectors(flags.selectors)
	if err != nil {
		return err
	}

	cfg, err := eng.CreateConfiguration(manufacturer, family, assignment)
	if err != nil {
		return fmt.Errorf("creating configuration: %w", err)
	}

	asOf, err := parseAsOf(flags.asOf)
	if err != nil {
		return err
	}

	result, err := eng.CalculatePrice(cfg, asOf)
	if err != nil {
		return fmt.Errorf("calculating price: %w", err)
	}

	formatter, err := output.NewFormatter(output.Format(flags.format))
	if err != nil {
		return err
	}
	rendered, err := formatter.FormatPrice(result)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}

func configureCmd(root *rootFlags) *cobra.Command {
	flags := &configureFlags{}
	cmd := &cobra.Command{
		Use:   "configure <manufacturer> <family>",
		Short: "Resolve a property assignment to a variant code and condition tokens",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigure(root, flags, args[0], args[1])
		},
	}
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(output.FormatSummary), "Output format: json or summary")
	cmd.Flags().StringArrayVarP(&flags.selectors, "select", "s", nil, "Property assignment NAME=VALUE (repeatable)")
	return cmd
}

func runConfigure(root *rootFlags, flags *configureFlags, manufacturer, family string) error {
	eng, log, err := newEngine(root)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	assignment, err := parseSelectors(flags.selectors)
	if err != nil {
		return err
	}

	// The declarative property definitions come from an externally-parsed
	// class implementation tree; without one supplied on the command line
	// this CLI validates nothing beyond variant-code/condition-token
	// resolution over the raw assignment.
	var emptyBody []clsast.Node
	manager, errs := eng.PropertiesForFamilyWithSelections(manufacturer, family, emptyBody, assignment)
	if manager == nil {
		if len(errs) > 0 {
			return fmt.Errorf("resolving properties: %w", errs[0])
		}
		return fmt.Errorf("resolving properties: unknown failure")
	}
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}

	cfg, err := eng.CreateConfiguration(manufacturer, family, assignment)
	if err != nil {
		return fmt.Errorf("creating configuration: %w", err)
	}

	formatter, err := output.NewFormatter(output.Format(flags.format))
	if err != nil {
		return err
	}
	rendered, err := formatter.FormatConfiguration(cfg)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}

func parseSelectors(selectors []string) (map[string]core.Value, error) {
	out := make(map[string]core.Value, len(selectors))
	for _, sel := range selectors {
		name, value, ok := strings.Cut(sel, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --select %q: expected NAME=VALUE", sel)
		}
		out[name] = inferValue(value)
	}
	return out, nil
}

// inferValue mirrors the CLS-level literal syntax: "true"/"false" for bool,
// a bare integer or decimal for a number, anything else verbatim as a
// string.
func inferValue(raw string) core.Value {
	switch raw {
	case "true":
		return core.BoolValue(true)
	case "false":
		return core.BoolValue(false)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return core.FloatValue(f)
	}
	return core.StringValue(raw)
}

func parseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: %w", raw, err)
	}
	return t, nil
}
