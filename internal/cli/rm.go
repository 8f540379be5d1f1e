package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/framestore/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Archive a frame into DeletedFrames",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	frameCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	f := s.Load(cmd.Context(), store.LoadParams{Name: args[0]})
	if f == nil {
		s.reportNotices()
		exitErr("rm", fmt.Errorf("%s: %w", args[0], store.ErrNotFound))
	}

	old, err := s.Delete(cmd.Context(), f)
	s.reportNotices()
	if err != nil {
		exitErr("rm", err)
	}
	fmt.Printf("deleted %s (archived as %s)\n", old, f.Name)
}
