package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/coffee-map/internal/config"
	"github.com/couchcryptid/coffee-map/internal/textimport"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Guess tasting form fields from recognized label text",
	Long: `Reads text recognized on a coffee bag label from a file, or stdin when
no file is given, and prints the guessed form fields. When prefill is
configured, a link to the form with those fields filled in is printed too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open label text: %w", err)
			}
			defer f.Close()
			in = f
		}
		text, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read label text: %w", err)
		}
		return writeExtraction(cmd.OutOrStdout(), string(text), cfg.Prefill, extractJSON)
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the fields and prefill link as JSON")
	rootCmd.AddCommand(extractCmd)
}

type extraction struct {
	Fields     textimport.Fields `json:"fields"`
	PrefillURL string            `json:"prefillUrl,omitempty"`
}

func writeExtraction(w io.Writer, text string, prefill config.Prefill, asJSON bool) error {
	fields := textimport.ParseFields(text)
	fields.RawText = strings.TrimSpace(text)
	out := extraction{Fields: fields, PrefillURL: textimport.BuildPrefillURL(fields, prefill)}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	fmt.Fprintln(w, textimport.Summary(fields))
	if out.PrefillURL != "" {
		fmt.Fprintf(w, "\nForm: %s\n", out.PrefillURL)
	}
	return nil
}
