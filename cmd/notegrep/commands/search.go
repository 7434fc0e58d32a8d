package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/notegrep/cmd/notegrep/opts"
	"github.com/walteh/notegrep/pkg/pattern"
	"github.com/walteh/notegrep/pkg/session"
)

// NewSearchCmd creates a new search command
func NewSearchCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		useRegex   bool
		ignoreCase bool
		wholeWord  bool
		activeDoc  string
	)

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search the vault for matches",
		Long: `Search scans every document in the vault (or just one, with --document)
and prints each match with its location and surrounding context.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "search").Logger().WithContext(ctx)

			settings := *rootOpts.Settings
			if activeDoc != "" {
				settings.Scope = "document"
				rootOpts.Vault.SetActive(activeDoc)
			} else {
				settings.Scope = "vault"
			}

			sess := session.New(session.Options{
				Vault:    rootOpts.Vault,
				Settings: settings,
				Notifier: rootOpts.Notifier,
			})
			defer sess.Close()

			query := pattern.Query{
				Raw:        args[0],
				Regex:      useRegex,
				IgnoreCase: ignoreCase,
				WholeWord:  wholeWord,
			}

			result, err := sess.SearchNow(ctx, query)
			if err != nil {
				return errors.Errorf("searching: %w", err)
			}

			rootOpts.Logger.StartSearch(ctx, query.Raw, settings.Scope)
			for _, m := range result.Index.All() {
				rootOpts.Logger.LogMatch(ctx, m)
			}
			rootOpts.Logger.EndSearch(ctx, result)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&useRegex, "regex", "e", false, "treat the pattern as a regular expression")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "match case-insensitively")
	cmd.Flags().BoolVarP(&wholeWord, "word", "w", false, "match whole words only (regex mode)")
	cmd.Flags().StringVar(&activeDoc, "document", "", "restrict the search to one document path")

	return cmd
}
