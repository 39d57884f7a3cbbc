package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"skeleton/internal/app"
)

func newTriggerCmd(opts *options) *cobra.Command {
	var rawArgs []string
	cmd := &cobra.Command{
		Use:   "trigger <event>",
		Short: "Dispatch an event to the stock listeners and print the result",
		Example: "  skeleton trigger before-something --arg foo=[]\n" +
			"  skeleton trigger something",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			eventArgs, err := parseEventArgs(rawArgs)
			if err != nil {
				return err
			}
			a, err := app.New(cfg, log)
			if err != nil {
				return err
			}
			res, err := a.Trigger(args[0], eventArgs)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "Event argument key=value; JSON values are decoded (repeatable)")
	return cmd
}

func newRoutesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			a, err := app.New(cfg, log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range a.Routes() {
				fmt.Fprintf(out, "%-7s %-20s %s.%s\n", r.Method, r.Pattern, r.Controller, r.Action)
			}
			return nil
		},
	}
}

// parseEventArgs turns key=value pairs into an argument bag. Values that are
// valid JSON are decoded; anything else is kept as a string.
func parseEventArgs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --arg %q: want key=value", p)
		}
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			out[k] = decoded
			continue
		}
		out[k] = v
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
