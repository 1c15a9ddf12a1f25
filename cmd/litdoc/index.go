// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litdoc/internal/catalog"
	"github.com/pdiddy/litdoc/pkg/types"
)

const defaultIndexDir = ".litdoc"

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the segment catalog (store, retrieve, export)",
	Long: `Index manages a local SQLite catalog of extracted segments. Use
subcommands to index sources, search the catalog, or export it.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store [paths...]",
	Short: "Extract sources and store their segments in the catalog",
	Long: `Store extracts documentation from the given files and directories and
ingests every segment into a SQLite database with FTS5 indexing, then writes
an export file. Files unchanged since the last run are skipped.`,
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), paths, cfg.Extract, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var indexRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the catalog with full-text search and filters",
	Long: `Retrieve searches the catalog using FTS5 full-text search, structured
filters (kind, lang, path), or a combination of both.

Use --trace with a segment ID to print its exact source text.`,
	RunE: runIndexRetrieve,
}

func runIndexRetrieve(cmd *cobra.Command, args []string) error {
	traceID, _ := cmd.Flags().GetString("trace")

	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	if traceID != "" {
		text, err := store.Trace(context.Background(), traceID)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --kind, --lang, or --path")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []catalog.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-9s  %-8s  %-50s  %s\n", "ID", "Kind", "Lang", "Text", "Location")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, r := range results {
		text := strings.ReplaceAll(r.Text, "\n", " ")
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-9s  %-8s  %-50s  %s:%d\n",
			r.ID, r.Kind, r.Lang, text, r.Path, r.StartLine)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (or a filtered subset) to export.yaml or
export.json in the index directory. Supports the same filter flags as
retrieve for partial exports.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("export-format")

	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", store.ExportPath("yaml"))
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", store.ExportPath("json"))
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	kind, _ := cmd.Flags().GetString("kind")
	lang, _ := cmd.Flags().GetString("lang")
	path, _ := cmd.Flags().GetString("path")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:      queryText,
		Kind:       types.SegmentKind(kind),
		Lang:       lang,
		Path:       path,
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command, purpose string) {
	cmd.Flags().String("query", "", "full-text search query"+purpose)
	cmd.Flags().String("kind", "", "filter by segment kind: prose, code, algorithm"+purpose)
	cmd.Flags().String("lang", "", "filter by fence language"+purpose)
	cmd.Flags().String("path", "", "filter by source file"+purpose)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String(keyIndexDir, defaultIndexDir, "directory holding the catalog database and exports")
	indexCmd.PersistentFlags().Int(keyMaxResults, 20, "maximum number of query results")

	// Store flags.
	indexStoreCmd.Flags().StringSlice(keyAlgorithmTags, nil, "fence tags stored as algorithms")
	indexStoreCmd.Flags().StringSlice(keyStyle, nil, "comment styles to recognize: c, python")

	// Retrieve flags.
	addFilterFlags(indexRetrieveCmd, "")
	indexRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexRetrieveCmd.Flags().String("trace", "", "print the source text of a segment ID")
	indexRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	indexExportCmd.Flags().String("export-format", "yaml", "export format: yaml or json")
	addFilterFlags(indexExportCmd, " for partial export")
	indexExportCmd.Flags().Int("limit", 0, "maximum segments to export (0 = all)")

	// Wire subcommands.
	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexRetrieveCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
