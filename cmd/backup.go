package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/magis/internal/backup"
	"github.com/dotcommander/magis/internal/output"
)

var restoreForce bool

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or restore all data",
}

var backupExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write every collection to a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	Run:   run(withApp(runBackupExport)),
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all data with a backup",
	Args:  cobra.ExactArgs(1),
	Run:   run(withApp(runBackupRestore)),
}

func init() {
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Overwrite existing data")
	backupCmd.AddCommand(backupExportCmd, backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}

func runBackupExport(a *app, args []string) error {
	b, err := backup.Export(a.store, args[0], now())
	if err != nil {
		return err
	}
	report := output.BackupReport{Action: "exported", Summary: b.Summarize(args[0])}
	return a.out.Render(func(f output.Formatter) error { return f.Backup(report) })
}

func runBackupRestore(a *app, args []string) error {
	if !restoreForce {
		snap, err := a.store.Snapshot()
		if err != nil {
			return err
		}
		if len(snap.Sins)+len(snap.BuenasObras)+len(snap.PersonTypes)+len(snap.Activities)+
			len(snap.Condicionantes)+len(snap.Sessions)+len(snap.Notes) > 0 {
			return fmt.Errorf("%s already holds data; pass --force to replace it", a.cfg.Data)
		}
	}
	b, err := backup.Restore(a.store, args[0])
	if err != nil {
		return err
	}
	report := output.BackupReport{Action: "restored", Summary: b.Summarize(args[0])}
	return a.out.Render(func(f output.Formatter) error { return f.Backup(report) })
}
