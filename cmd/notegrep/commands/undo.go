package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/notegrep/cmd/notegrep/opts"
	"github.com/walteh/notegrep/pkg/journal"
	"github.com/walteh/notegrep/pkg/undo"
)

// NewUndoCmd creates a new undo command
func NewUndoCmd(rootOpts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Revert the most recent replacement batch",
		Long: `Undo restores every document touched by the most recent replace run to
its prior content. Each invocation reverts one batch; there is no redo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "undo").Logger().WithContext(ctx)

			jnl, err := journal.Load(ctx, rootOpts.JournalPath, rootOpts.Settings.UndoCapacity)
			if err != nil {
				return errors.Errorf("loading journal: %w", err)
			}

			entry, err := jnl.PopMostRecent()
			if errors.Is(err, undo.ErrEmpty) {
				rootOpts.Notifier.Notify("nothing to undo")
				return nil
			}
			if err != nil {
				return err
			}

			restored, failed := undo.Revert(ctx, entry, rootOpts.Vault)
			if err := jnl.Save(ctx); err != nil {
				return errors.Errorf("saving journal: %w", err)
			}

			if failed > 0 {
				rootOpts.Logger.Warningf("restored %d documents, %d failed", restored, failed)
			} else {
				rootOpts.Logger.Success(fmt.Sprintf("restored %d documents", restored))
			}
			return nil
		},
	}

	return cmd
}
