package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/framestore/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Load a frame",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().String("root", "", "Only look under this root directory")
	cmd.Flags().Bool("raw", false, "Ignore content annotations")

	frameCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	root, _ := cmd.Flags().GetString("root")
	raw, _ := cmd.Flags().GetBool("raw")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	f := s.Load(cmd.Context(), store.LoadParams{
		Name:              args[0],
		KnownPath:         root,
		IgnoreAnnotations: raw,
	})
	s.reportNotices()
	if f == nil {
		exitErr("get", fmt.Errorf("%s: %w", args[0], store.ErrNotFound))
	}
	printFrame(f)
}
