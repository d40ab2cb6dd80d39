package cli

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tlog/internal/backup"
	"github.com/mesh-intelligence/tlog/internal/sqlite"
)

type backupView struct {
	Job   string `json:"job"`
	Dest  string `json:"dest,omitempty"`
	Bytes int64  `json:"bytes"`
	Error string `json:"error,omitempty"`
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <dir>...",
		Short: "Copy the database into one or more directories",
		Long: `Copy the database file into each directory, overwriting an earlier
copy. File mode and modification time are kept. Copies run concurrently,
up to backup_workers at a time.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(b *sqlite.Backend) error {
				pool := backup.NewPool(a.config.GetInt(cfgKeyBackupWorkers), a.logger)

				var (
					mu      sync.Mutex
					results []backup.Result
				)
				for _, dir := range args {
					pool.Copy(b.Path(), dir, func(r backup.Result) {
						mu.Lock()
						results = append(results, r)
						mu.Unlock()
					})
				}
				pool.Wait()

				out := cmd.OutOrStdout()
				views := make([]backupView, 0, len(results))
				failed := 0
				for _, r := range results {
					v := backupView{Job: r.JobID.String(), Dest: r.Dest, Bytes: r.Bytes}
					if r.Err != nil {
						v.Error = r.Err.Error()
						failed++
					}
					views = append(views, v)
				}

				if a.flags.jsonMode {
					if err := printJSON(out, views); err != nil {
						return err
					}
				} else {
					for _, v := range views {
						if v.Error != "" {
							fmt.Fprintf(out, "%s %s\n", red("failed"), v.Error)
							continue
						}
						fmt.Fprintf(out, "Backed up to %s (%s)\n", v.Dest, humanize.Bytes(uint64(v.Bytes)))
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d backup(s) failed", failed, len(results))
				}
				return nil
			})
		},
	}
}
