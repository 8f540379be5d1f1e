package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/framestore/internal/store"
)

var framesetCmd = &cobra.Command{
	Use:   "frameset",
	Short: "Create, move, copy and delete framesets",
}

func init() {
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a frameset seeded with frames 0 and 1",
		Args:  cobra.ExactArgs(1),
		Run:   runFramesetCreate,
	}
	create.Flags().String("root", "", "Root directory (default: first configured root)")
	create.Flags().Bool("reseed", false, "Rewrite frames 0 and 1 of an existing frameset")

	rm := &cobra.Command{
		Use:   "rm <name>",
		Short: "Move a frameset to the trash",
		Args:  cobra.ExactArgs(1),
		Run:   runFramesetRm,
	}

	mv := &cobra.Command{
		Use:   "mv <name> <dest-root>",
		Short: "Move a frameset under another root directory",
		Args:  cobra.ExactArgs(2),
		Run:   runFramesetMv,
	}

	cp := &cobra.Command{
		Use:   "cp <source> <dest>",
		Short: "Copy a frameset under a new name",
		Args:  cobra.ExactArgs(2),
		Run:   runFramesetCp,
	}

	framesetCmd.AddCommand(create, rm, mv, cp)
	RootCmd.AddCommand(framesetCmd)
}

func runFramesetCreate(cmd *cobra.Command, args []string) {
	root, _ := cmd.Flags().GetString("root")
	reseed, _ := cmd.Flags().GetBool("reseed")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	f, err := s.Create(cmd.Context(), store.CreateParams{
		Name:   args[0],
		Root:   root,
		Reseed: reseed,
	})
	if err != nil {
		exitErr("create frameset", err)
	}
	printFrame(f)
}

func runFramesetRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	dest, err := s.DeleteFrameset(args[0])
	if err != nil {
		exitErr("delete frameset", err)
	}
	fmt.Printf("moved %s to %s\n", args[0], dest)
}

func runFramesetMv(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	dest, err := s.MoveFrameset(args[0], args[1])
	if err != nil {
		exitErr("move frameset", err)
	}
	fmt.Printf("moved %s to %s\n", args[0], dest)
}

func runFramesetCp(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.CopyFrameset(cmd.Context(), args[0], args[1]); err != nil {
		exitErr("copy frameset", err)
	}
	fmt.Printf("copied %s to %s\n", args[0], args[1])
}
