package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/allergyaid/backend/config"
	"github.com/pageza/allergyaid/backend/internal/app"
	"github.com/pageza/allergyaid/backend/internal/crossreact"
	"github.com/pageza/allergyaid/backend/internal/logging"
	"github.com/pageza/allergyaid/backend/internal/openfoodfacts"
	"github.com/pageza/allergyaid/backend/internal/scan"
)

var relatedCmd = &cobra.Command{
	Use:   "related <allergen>",
	Short: "List allergens likely to cross-react with the given one",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := loadResolver()
		if err != nil {
			return err
		}
		name := strings.Join(args, " ")
		related := resolver.LikelyFor(name)
		if jsonOutput {
			// only a real suggestion carries a confidence
			confidence := 0.0
			if len(resolver.Related(name)) > 0 {
				confidence = crossreact.Confidence
			}
			return writeJSON(cmd.OutOrStdout(), crossreact.CrossAllergen{
				Allergen:               name,
				CrossReactiveAllergens: related,
				Confidence:             confidence,
			})
		}
		for _, r := range related {
			fmt.Fprintln(cmd.OutOrStdout(), r)
		}
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan <food name or ingredients>",
	Short: "Find allergen categories in a food name or ingredient list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := loadResolver()
		if err != nil {
			return err
		}
		found := scan.NewScanner(resolver).ScanText(strings.Join(args, " "))
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), found)
		}
		if len(found) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No known allergens found")
			return nil
		}
		for _, f := range found {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Look a barcode up in Open Food Facts and check it against the profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Scan.LookupBarcode(ctx, args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", openfoodfacts.UserMessage(err), err)
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), res)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", res.Name, res.Barcode)
		if len(res.Assessment.Allergens) == 0 {
			fmt.Fprintln(out, "Allergens: none listed")
		} else {
			fmt.Fprintf(out, "Allergens: %s\n", strings.Join(res.Assessment.Allergens, ", "))
		}
		fmt.Fprintf(out, "Severity:  %s\n", res.Assessment.Severity)
		for _, m := range res.Assessment.Matches {
			fmt.Fprintf(out, "  ! contains %s (your %s allergy, level %.1f)\n", m.Found, m.Allergen, m.Level)
		}
		for _, w := range res.Assessment.CrossReactive {
			fmt.Fprintf(out, "  ~ %s may cross-react with your %s allergy\n", w.Found, w.Allergen)
		}
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload a profile snapshot to S3 and rotate old backups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Backup == nil {
			return fmt.Errorf("backups are disabled: set S3_BUCKET_NAME")
		}
		key, err := a.Backup.Run(ctx)
		if key != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded s3://%s/%s\n", a.Config.S3Bucket, key)
		}
		return err
	},
}

func loadResolver() (*crossreact.Resolver, error) {
	if tablePath == "" {
		return crossreact.NewResolver(nil), nil
	}
	table, err := crossreact.LoadTable(tablePath)
	if err != nil {
		return nil, err
	}
	return crossreact.NewResolver(table), nil
}

func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if tablePath != "" {
		cfg.CrossReactivityTable = tablePath
	}
	// the CLI reads the profile but never seeds it
	cfg.SeedDefaults = false

	logger, err := logging.New(cfg.Environment, "warn")
	if err != nil {
		logger = zap.NewNop()
	}
	return app.New(ctx, cfg, logger)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
