package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vhark/ProxmoxMCP/internal/history"
	"github.com/vhark/ProxmoxMCP/internal/output"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded rotation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.History.Path == "" {
			return fmt.Errorf("history is not configured (set history.path)")
		}

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.RecentRuns(historyLimit)
		if err != nil {
			return err
		}

		fmt.Print(output.RenderRunTable(runs))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show")
}
