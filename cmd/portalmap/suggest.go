package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmorley/portalmap/pkg/fuzzy"
)

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <name>",
		Short: "Check a zone name against the vocabulary and propose corrections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			matcher := fuzzy.Matcher{
				MaxDistance:    a.cfg.Fuzzy.MaxDistance,
				MaxSuggestions: a.cfg.Fuzzy.MaxSuggestions,
			}
			result := matcher.Suggest(args[0], a.vocabulary().Names())
			if result.Valid {
				fmt.Printf("%s is a known zone\n", result.Suggestions[0])
				return nil
			}
			if len(result.Suggestions) == 1 && !a.vocabulary().Contains(result.Suggestions[0]) {
				fmt.Printf("no close match for %q\n", args[0])
				return nil
			}
			fmt.Printf("did you mean: %s\n", strings.Join(result.Suggestions, ", "))
			return nil
		},
	}
}
