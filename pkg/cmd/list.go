package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"text/template"

	"github.com/Masterminds/sprig"
	units "github.com/docker/go-units"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/tinyzimmer/zipper/pkg/archive"
	"github.com/tinyzimmer/zipper/pkg/types"
)

var (
	listOutput   string
	listTemplate string
	listSHA256   bool
)

var listOutputFormats = []string{"table", "json", "yaml", "template"}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "The output format, one of table, json, yaml or template")
	listCmd.Flags().StringVarP(&listTemplate, "template", "t", "", "The go template to render for each entry when the output is template, sprig functions are available")
	listCmd.Flags().BoolVar(&listSHA256, "sha256", false, "Calculate the sha256 of every file entry")

	listCmd.RegisterFlagCompletionFunc("output", completeStringOpts(listOutputFormats))

	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list ARCHIVE",
	Short: "List the entries of a zip archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := archive.List(args[0], zipper.Settings().Encoding, listSHA256)
		if err != nil {
			return err
		}
		return printEntries(os.Stdout, entries)
	},
}

func printEntries(out io.Writer, entries []types.Entry) error {
	switch listOutput {
	case "table":
		return printTable(out, entries)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "template":
		if listTemplate == "" {
			return fmt.Errorf("--template is required with --output template")
		}
		tmpl, err := template.New("entry").Funcs(sprig.TxtFuncMap()).Parse(listTemplate)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := tmpl.Execute(out, entry); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q, must be one of %v", listOutput, listOutputFormats)
}

func printTable(out io.Writer, entries []types.Entry) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	header := "NAME\tSIZE\tCOMPRESSED\tMETHOD\tMODIFIED"
	if listSHA256 {
		header += "\tSHA256"
	}
	fmt.Fprintln(w, header)
	var total uint64
	for _, e := range entries {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
			e.Name,
			units.HumanSize(float64(e.Size)),
			units.HumanSize(float64(e.CompressedSize)),
			e.Method,
			e.Modified.Format("2006-01-02 15:04:05"),
		)
		if listSHA256 {
			line += "\t" + e.SHA256
		}
		fmt.Fprintln(w, line)
		total += e.Size
	}
	fmt.Fprintf(w, "\n%d entries\t%s\n", len(entries), units.HumanSize(float64(total)))
	return w.Flush()
}
