// Package cli provides the command-line interface for the OpenAPI playground.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/GabrielNunesIT/openapi-playground/internal/adapters/exporters"
	"github.com/GabrielNunesIT/openapi-playground/internal/adapters/reader"
	"github.com/GabrielNunesIT/openapi-playground/internal/config"
	"github.com/GabrielNunesIT/openapi-playground/internal/playground"
	"github.com/spf13/cobra"
)

// ErrNoResources is returned by convert when no document produced a resource.
var ErrNoResources = errors.New("no resources discovered")

// CLI holds the command-line interface configuration.
type CLI struct {
	log     logger.ILogger
	rootCmd *cobra.Command
	cfg     *config.Config

	configFile string
	specDir    string
	specURLs   []string
	validate   bool

	outputFile string
	format     string

	sets []string
	body string
	mock bool
}

// New creates a new CLI instance.
func New(log logger.ILogger) *CLI {
	cli := &CLI{
		log: log,
	}

	cli.rootCmd = &cobra.Command{
		Use:               "openapi-playground",
		Short:             "Turn OpenAPI specifications into an interactive API playground",
		Long:              "A tool that converts OpenAPI 3.x specifications into test configurations, documents them and serves a playground to call the described endpoints against a mock or real backend.",
		SilenceUsage:      true,
		PersistentPreRunE: cli.loadConfig,
	}

	cli.setupFlags()

	cli.rootCmd.AddCommand(cli.convertCmd(), cli.serveCmd(), cli.requestCmd())

	return cli
}

func (c *CLI) setupFlags() {
	flags := c.rootCmd.PersistentFlags()

	flags.StringVarP(&c.configFile, "config", "c", "", "Path to a YAML configuration file")
	flags.StringVarP(&c.specDir, "spec-dir", "d", "", "Directory holding the OpenAPI spec files")
	flags.StringArrayVar(&c.specURLs, "spec-url", nil, "URL of an OpenAPI spec file (repeatable)")
	flags.BoolVar(&c.validate, "validate", false, "Reject documents that are not valid OpenAPI")
}

func (c *CLI) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the spec files into a test configuration or document",
		Args:  cobra.NoArgs,
		RunE:  c.runConvert,
	}

	cmd.Flags().StringVarP(&c.format, "format", "f", "json", "Output format: json, pdf, docx, confluence")
	cmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Path for the output file (default stdout)")

	return cmd
}

func (c *CLI) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the playground HTTP API",
		Args:  cobra.NoArgs,
		RunE:  c.runServe,
	}
}

func (c *CLI) requestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request <resource> <action>",
		Short: "Build and send one configured request",
		Args:  cobra.ExactArgs(2),
		RunE:  c.runRequest,
	}

	cmd.Flags().StringArrayVar(&c.sets, "set", nil, "Field value as name=value (repeatable)")
	cmd.Flags().StringVar(&c.body, "body", "", "Request body as JSON (object or array)")
	cmd.Flags().BoolVar(&c.mock, "mock", true, "Answer from the mock backend instead of target_url")

	return cmd
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

// ExecuteContext runs the CLI with ctx, which stops long-running commands.
func (c *CLI) ExecuteContext(ctx context.Context) error {
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()

	if flags.Changed("spec-dir") {
		cfg.SpecDir = c.specDir
	}

	if flags.Changed("spec-url") {
		cfg.SpecURLs = c.specURLs
	}

	if flags.Changed("validate") {
		cfg.Validate = c.validate
	}

	c.cfg = cfg

	return nil
}

func (c *CLI) catalog() *playground.Catalog {
	r := reader.New(c.log, reader.Options{
		Validate: c.cfg.Validate,
		Timeout:  c.cfg.FetchTimeout,
	})

	return playground.NewCatalog(r, c.log, c.cfg.SpecDir, c.cfg.SpecURLs)
}

func (c *CLI) dispatcher() *playground.Dispatcher {
	return playground.NewDispatcher(c.log, playground.DispatchOptions{
		TargetURL:     c.cfg.TargetURL,
		ArrayTruncate: c.cfg.ArrayTruncate,
		Timeout:       c.cfg.FetchTimeout,
	})
}

func (c *CLI) runConvert(cmd *cobra.Command, _ []string) error {
	exporter, err := exporters.ForFormat(c.format)
	if err != nil {
		return err
	}

	snap, err := c.catalog().Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load spec files: %w", err)
	}

	for _, docErr := range snap.Errors {
		c.log.Errorf("%s: %s", docErr.Source, docErr.Message)
	}

	if len(snap.Config) == 0 {
		return ErrNoResources
	}

	c.log.Infof("Converting to %s format...", exporter.Format())

	var out io.Writer = cmd.OutOrStdout()

	if c.outputFile != "" {
		outputFile, err := os.Create(c.outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer outputFile.Close()

		out = outputFile
	}

	if err := exporter.Export(snap.Config, out); err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if c.outputFile != "" {
		c.log.Infof("Successfully created: %s", c.outputFile)
	}

	return nil
}

func (c *CLI) runServe(cmd *cobra.Command, _ []string) error {
	server := playground.NewServer(c.log, c.catalog(), c.dispatcher())

	return server.ListenAndServe(cmd.Context(), c.cfg.ListenAddr)
}

func (c *CLI) runRequest(cmd *cobra.Command, args []string) error {
	resource, action := args[0], args[1]

	inputs, err := c.inputs()
	if err != nil {
		return err
	}

	snap, err := c.catalog().Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load spec files: %w", err)
	}

	op, err := playground.Lookup(snap.Config, resource, action)
	if err != nil {
		return err
	}

	if missing := playground.MissingRequired(op, inputs); len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	target := playground.TargetMock
	if !c.mock {
		target = playground.TargetReal
	}

	mock := playground.NewMockBackend(snap.Config)

	result, err := c.dispatcher().Dispatch(cmd.Context(), mock, target, playground.BuildRequest(op, inputs))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}

// inputs collects --body and --set values. --set wins over body keys.
func (c *CLI) inputs() (playground.Inputs, error) {
	inputs := playground.Inputs{}

	if c.body != "" {
		var body any
		if err := json.Unmarshal([]byte(c.body), &body); err != nil {
			return nil, fmt.Errorf("invalid --body: %w", err)
		}

		switch b := body.(type) {
		case map[string]any:
			maps.Copy(inputs, b)
		case []any:
			inputs["body"] = b
		default:
			return nil, errors.New("invalid --body: expected a JSON object or array")
		}
	}

	for _, set := range c.sets {
		name, value, ok := strings.Cut(set, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", set)
		}

		inputs[name] = parseValue(value)
	}

	return inputs, nil
}

// parseValue reads JSON arrays and booleans. Anything else stays a string and is
// coerced to the field type when the request is built.
func parseValue(value string) any {
	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err == nil {
		switch decoded.(type) {
		case []any, bool:
			return decoded
		}
	}

	return value
}
