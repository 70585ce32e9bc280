package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"partnerlab-agent-be/pkg/labform"
)

var errInvalid = errors.New("validation failed")

var validateFieldCmd = &cobra.Command{
	Use:   "validate-field <field> <value>",
	Short: "Check one value against the field rules",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		field := labform.Field(args[0])
		value, err := fieldValue(field, args[1])
		if err != nil {
			return err
		}

		res := labform.NewEngine().ValidateField(field, value)
		out := cmd.OutOrStdout()
		if !res.OK {
			color.New(color.FgRed).Fprintf(out, "✗ %s: %s\n", field, res.Message)
			return errInvalid
		}
		color.New(color.FgGreen).Fprintf(out, "✓ %s is valid\n", field)
		return nil
	},
}

var validateFormCmd = &cobra.Command{
	Use:   "validate-form <file>",
	Short: "Check a whole form read from a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		values, err := loadForm(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		form := labform.FromMap(values)
		report := labform.NewEngine().ValidateForm(form)

		summary, _ := cmd.Flags().GetBool("summary")
		if summary {
			fmt.Fprintln(cmd.OutOrStdout(), labform.Summary(form, report))
		}
		printReport(cmd.OutOrStdout(), report)
		if !report.OK {
			return errInvalid
		}
		return nil
	},
}

func init() {
	validateFormCmd.Flags().Bool("summary", false, "Print the form summary before the report")

	rootCmd.AddCommand(validateFieldCmd)
	rootCmd.AddCommand(validateFormCmd)
}

// fieldValue converts a command line argument to the type the field
// expects. Only boolean fields take a non-string value.
func fieldValue(field labform.Field, raw string) (any, error) {
	spec, ok := labform.Lookup(field)
	if !ok || spec.Kind != labform.KindBoolean {
		return raw, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s expects true or false, got %q", field, raw)
	}
	return b, nil
}

// loadForm decodes a YAML (or JSON) mapping. Scalars stay strings unless
// tagged bool or null, so values like 4.14 keep their text form.
func loadForm(data []byte) (map[string]any, error) {
	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, err
	}

	values := make(map[string]any, len(nodes))
	for key, node := range nodes {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("field %s: expected a scalar value", key)
		}
		switch node.Tag {
		case "!!null":
			values[key] = nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			values[key] = b
		default:
			values[key] = node.Value
		}
	}
	return values, nil
}

func printReport(out io.Writer, report labform.Report) {
	if report.OK {
		color.New(color.FgGreen).Fprintln(out, "✓ form is complete")
		return
	}
	red := color.New(color.FgRed)
	for _, msg := range report.Errors {
		red.Fprintf(out, "✗ %s\n", msg)
	}
}
