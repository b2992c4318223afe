package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"leasing-wizard/internal/common/validation"
	"leasing-wizard/internal/leasing/form"
)

var errInvalidDraft = errors.New("application is invalid")

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a saved application draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			decode := form.DecodeDraft
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".yaml", ".yml":
				decode = form.DecodeDraftYAML
			}

			draft, res, err := decode(raw)
			if err != nil {
				return err
			}
			if res.Valid {
				form.DeriveProductModel(&draft)
				res = form.New().Validate(draft)
			}

			out := cmd.OutOrStdout()
			if res.Valid {
				fmt.Fprintln(out, "OK")
				log.Info("Draft valid", map[string]interface{}{"file": args[0]})
				return nil
			}
			printErrors(cmd, res)
			log.Warn("Draft invalid", map[string]interface{}{"file": args[0], "fields": res.Fields()})
			return errInvalidDraft
		},
	}
	return cmd
}

func printErrors(cmd *cobra.Command, res *validation.ValidationResult) {
	for _, e := range res.Errors {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", e.Field, e.Message)
	}
}
