package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/keyreg/internal/presentation"
)

// errMismatch is returned by check when the document differs from the record.
var errMismatch = errors.New("value does not match registered record")

var checkLines bool

var checkCmd = &cobra.Command{
	Use:   "check <registry> <key> [file|-]",
	Short: "Verify a JSON document against a registered record",
	Long: `Compare a JSON document with the record registered under key, after the
registry's transform. Reads the document from file, or from stdin when the
file is "-" or omitted. Prints a diff and exits non-zero on mismatch.
With --lines the diff compares the two documents as indented JSON text.

Examples:
  curl -s localhost:3000/api/secret | keyreg check errors not_authorized
  keyreg check errors not_found testdata/not_found.json`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		defer catalog.Close()

		reg, err := catalog.Get(args[0])
		if err != nil {
			return err
		}

		doc, err := readDocument(cmd, args[2:])
		if err != nil {
			return err
		}

		diff, err := reg.Diff(args[1], doc)
		if err != nil {
			return err
		}
		if diff != "" && checkLines {
			registered, err := reg.Lookup(args[1])
			if err != nil {
				return err
			}
			want, err := renderJSON(registered)
			if err != nil {
				return err
			}
			var parsed any
			if err := json.Unmarshal(doc, &parsed); err != nil {
				return fmt.Errorf("parsing document: %w", err)
			}
			got, err := renderJSON(parsed)
			if err != nil {
				return err
			}
			diff = presentation.LineDiff(want, got)
		}
		if diff != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s mismatch (-registered +got):\n%s", reg.Name(), args[1], diff)
			return errMismatch
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s/%s ok\n", reg.Name(), args[1])
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkLines, "lines", false, "show a line diff of the indented JSON documents")
	rootCmd.AddCommand(checkCmd)
}

// renderJSON formats v as indented JSON with sorted object keys.
func renderJSON(v any) (string, error) {
	var buf bytes.Buffer
	if err := presentation.NewFormatter(&buf, presentation.FormatJSON).Format(v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func readDocument(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0]) //nolint:gosec // G304: path is a CLI argument
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return data, nil
}
