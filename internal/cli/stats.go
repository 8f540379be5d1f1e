package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/framestore/internal/journal"
	"github.com/rcliao/framestore/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show store and journal statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

type statsView struct {
	Store   *store.Stats   `json:"store"`
	Journal *journal.Stats `json:"journal,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	st, err := s.Stats()
	if err != nil {
		exitErr("stats", err)
	}
	view := statsView{Store: st}
	if s.journal != nil {
		js, err := s.journal.Stats(cmd.Context(), s.cfg.Journal)
		if err != nil {
			exitErr("journal stats", err)
		}
		view.Journal = js
	}

	if formatFlag == "text" {
		fmt.Printf("framesets: %s\n", humanize.Comma(int64(st.Framesets)))
		fmt.Printf("frames:    %s (%s)\n", humanize.Comma(int64(st.Frames)), humanize.Bytes(uint64(st.TotalBytes)))
		if js := view.Journal; js != nil {
			fmt.Printf("journal:   %s revisions, %s forks, %s backups, %s deletes (%s)\n",
				humanize.Comma(int64(js.TotalRevisions)), humanize.Comma(int64(js.Forks)),
				humanize.Comma(int64(js.Backups)), humanize.Comma(int64(js.Deletes)),
				humanize.Bytes(uint64(js.DBSizeBytes)))
		}
		return
	}
	printJSON(view)
}
