package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/framestore/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history <name>",
		Short: "List the journal entries of a frame",
		Args:  cobra.ExactArgs(1),
		Run:   runHistory,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	frameCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	name, err := model.ParseFrameName(args[0])
	if err != nil {
		exitErr("history", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	revs, err := s.History(cmd.Context(), name, limit)
	if err != nil {
		exitErr("history", err)
	}

	if formatFlag == "text" {
		for _, r := range revs {
			line := fmt.Sprintf("v%d %-6s %s by %s", r.Version, r.Kind, humanize.Time(r.CreatedAt), r.User)
			if r.Related != "" {
				line += " (" + r.Related + ")"
			}
			fmt.Println(line)
		}
		return
	}
	printJSON(revs)
}
