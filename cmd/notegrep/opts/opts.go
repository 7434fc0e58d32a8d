package opts

import (
	"github.com/walteh/notegrep/pkg/config"
	"github.com/walteh/notegrep/pkg/journal"
	"github.com/walteh/notegrep/pkg/log"
	"github.com/walteh/notegrep/pkg/vault"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Settings    *config.Settings
	Vault       *vault.DirVault
	Notifier    log.Notifier
	Logger      *log.Logger
	JournalPath string
}

// JournalName returns the filename of the on-disk undo journal.
func (o *RootOpts) JournalName() string {
	return journal.DefaultFilename
}
