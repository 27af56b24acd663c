package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dvigh8/10k-parser/internal/artifact"
	"github.com/dvigh8/10k-parser/internal/query"
)

var (
	sectionHTML  bool
	metadataWait time.Duration
)

var metadataCmd = &cobra.Command{
	Use:   "metadata <pdf>",
	Short: "Print the metadata view for a processed filing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := artifact.New(cfg.DataDir, args[0])
		if metadataWait > 0 {
			if _, err := query.WaitInfo(cmd.Context(), store, metadataWait); err != nil {
				return err
			}
		}
		meta, err := query.GetMetadata(store)
		if err != nil {
			return err
		}
		return printJSON(meta)
	},
}

var sectionCmd = &cobra.Command{
	Use:   "section <pdf> <item>",
	Short: `Print one extracted section, e.g. tenk section filing.pdf "Item 1A"`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sec, err := query.GetSection(artifact.New(cfg.DataDir, args[0]), args[1])
		if err != nil {
			return err
		}
		if sectionHTML {
			html, err := query.SectionHTML(sec.Content)
			if err != nil {
				return err
			}
			fmt.Println(html)
			return nil
		}
		return printJSON(sec)
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables <pdf>",
	Short: "Print financial statements extracted from a processed filing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := query.GetTables(artifact.New(cfg.DataDir, args[0]))
		if err != nil {
			return err
		}
		return printJSON(tables)
	},
}

func init() {
	metadataCmd.Flags().DurationVar(&metadataWait, "wait", 0, "poll for the index artifact up to this long before reading")
	sectionCmd.Flags().BoolVar(&sectionHTML, "html", false, "render the section as HTML")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
