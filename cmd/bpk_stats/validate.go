package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jonathan/bpk-stats/internal/schemas"
	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/spf13/cobra"
)

var validateKind string

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate artifact files against their JSON schemas",
	Long: "Validates each file against the schema of its document kind. The kind is " +
		"taken from --kind, or inferred from the file name (content_stats.json, top_persons.json, ...).",
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateKind, "kind", "", "Document kind for every file")
	rootCmd.AddCommand(validateCmd)
}

func kindNames() string {
	names := make([]string, 0, len(schemas.Kinds()))
	for _, k := range schemas.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// inferKind maps a file name onto a document kind.
func inferKind(path string) (types.DocumentKind, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if slices.Contains(schemas.Kinds(), types.DocumentKind(base)) {
		return types.DocumentKind(base), nil
	}
	if strings.HasPrefix(base, "top_") {
		return types.KindTopList, nil
	}
	return "", fmt.Errorf("cannot infer document kind of %s; pass --kind (one of %s)", filepath.Base(path), kindNames())
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateKind != "" && !slices.Contains(schemas.Kinds(), types.DocumentKind(validateKind)) {
		return fmt.Errorf("unknown document kind %q (one of %s)", validateKind, kindNames())
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		kind := types.DocumentKind(validateKind)
		if kind == "" {
			var err error
			if kind, err = inferKind(path); err != nil {
				return err
			}
		}

		err := schemas.ValidateDocumentFile(kind, path)
		if err == nil {
			_, _ = fmt.Fprintf(out, "✓ %s (%s)\n", path, kind)
			continue
		}

		failed++
		_, _ = fmt.Fprintf(out, "✗ %s (%s)\n", path, kind)
		var valErr *schemas.ValidationError
		if errors.As(err, &valErr) {
			for _, fe := range valErr.Errors {
				_, _ = fmt.Fprintf(out, "    %s: %s\n", fe.Field, fe.Message)
			}
		} else {
			_, _ = fmt.Fprintf(out, "    %v\n", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}
