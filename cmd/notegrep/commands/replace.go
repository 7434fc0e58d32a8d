package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/notegrep/cmd/notegrep/opts"
	"github.com/walteh/notegrep/pkg/journal"
	"github.com/walteh/notegrep/pkg/pattern"
	"github.com/walteh/notegrep/pkg/session"
)

// NewReplaceCmd creates a new replace command
func NewReplaceCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		useRegex   bool
		ignoreCase bool
		wholeWord  bool
		activeDoc  string
		dryRun     bool
		skipIDs    []string
	)

	cmd := &cobra.Command{
		Use:   "replace <pattern> <replacement>",
		Short: "Replace matches across the vault",
		Long: `Replace scans for matches, applies the replacement to every approved
match in one batched pass per document, and records the batch so that
"notegrep undo" can revert it. Use --skip to exclude individual matches by
the id printed by search, or --dry-run to preview without writing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "replace").Logger().WithContext(ctx)

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
			template := args[1]

			result, err := sess.SearchNow(ctx, query)
			if err != nil {
				return errors.Errorf("searching: %w", err)
			}

			for _, id := range skipIDs {
				sess.SetIncluded(id, false)
			}

			if dryRun {
				rootOpts.Logger.Header("dry run, nothing written")
				for _, m := range result.Index.Approved() {
					preview, _ := sess.Preview(m.ID, template)
					rootOpts.Logger.Infof("%s:%d:%d: %q -> %q", m.Path, m.Line+1, m.Start+1, m.Text, preview)
				}
				return nil
			}

			entry, err := sess.ReplaceApproved(ctx, template)
			if err != nil {
				return errors.Errorf("replacing: %w", err)
			}
			if entry == nil {
				return nil
			}

			jnl, err := journal.Load(ctx, rootOpts.JournalPath, settings.UndoCapacity)
			if err != nil {
				return errors.Errorf("loading journal: %w", err)
			}
			jnl.Push(*entry)
			if err := jnl.Save(ctx); err != nil {
				return errors.Errorf("saving journal: %w", err)
			}

			rootOpts.Logger.Success("replacement batch recorded")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&useRegex, "regex", "e", false, "treat the pattern as a regular expression")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "match case-insensitively")
	cmd.Flags().BoolVarP(&wholeWord, "word", "w", false, "match whole words only (regex mode)")
	cmd.Flags().StringVar(&activeDoc, "document", "", "restrict the replace to one document path")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "preview replacements without writing")
	cmd.Flags().StringSliceVar(&skipIDs, "skip", nil, "match ids to exclude from the batch")

	return cmd
}
