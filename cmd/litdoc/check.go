// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/litdoc/internal/check"
	"github.com/pdiddy/litdoc/internal/extract"
	"github.com/pdiddy/litdoc/internal/render"
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Verify that committed documentation matches the sources",
	Long: `Check renders documentation from the given sources exactly as extract
would and compares it with the file named by --against. When they differ the
line diff is printed and the command exits nonzero. Use it in CI to catch
documentation that was not regenerated after a source change.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	against, _ := cmd.Flags().GetString("against")
	if against == "" {
		return fmt.Errorf("--against is required")
	}
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	results, summary, err := extract.ExtractAll(context.Background(), paths, cfg.Extract, os.Stderr)
	if err != nil {
		return err
	}
	logProblems(results)

	r, err := render.New(cfg.Render)
	if err != nil {
		return err
	}
	rendered, err := render.String(r, results)
	if err != nil {
		return err
	}

	res, err := check.Check(rendered, against)
	if err != nil {
		return err
	}

	var errs []error
	if res.Stale {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if err := res.WriteDiff(os.Stdout, !noColor && check.UseColor(os.Stdout)); err != nil {
			return err
		}
		errs = append(errs, fmt.Errorf("%s is out of date: run litdoc extract --output %s", against, against))
	} else {
		log.Info().Str("file", against).Msg("documentation is up to date")
	}
	errs = append(errs, summaryError(summary))
	return errors.Join(errs...)
}

func init() {
	addExtractFlags(checkCmd)
	checkCmd.Flags().String("against", "", "committed documentation file to compare with")
	checkCmd.Flags().Bool("no-color", false, "disable colored diff output")

	rootCmd.AddCommand(checkCmd)
}
