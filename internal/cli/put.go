package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/framestore/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put <name> [text]",
		Short: "Add an item to a frame and save it",
		Long:  "Add an item to a frame and save it. Text can be a positional arg or piped via stdin.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runPut,
	}

	cmd.Flags().StringP("title", "t", "", "Replace the frame's title")
	cmd.Flags().StringP("link", "l", "", "Frame the new item links to")
	cmd.Flags().Bool("force", false, "Skip the read-only and backup checks")

	frameCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	link, _ := cmd.Flags().GetString("link")
	force, _ := cmd.Flags().GetBool("force")

	var text string
	if len(args) > 1 {
		text = strings.Join(args[1:], " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			text = string(b)
		}
	}
	text = strings.TrimSpace(text)
	if text == "" && title == "" {
		exitErr("put", fmt.Errorf("text or --title is required"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	f := s.Load(cmd.Context(), store.LoadParams{Name: args[0]})
	if f == nil {
		s.reportNotices()
		exitErr("put", fmt.Errorf("%s: %w", args[0], store.ErrNotFound))
	}

	if title != "" {
		f.SetTitle(title)
	}
	if text != "" {
		f.AddItem(text, link)
	}
	f.MarkChanged()

	out, err := s.Save(cmd.Context(), f, store.SaveOptions{
		IncrementStats:         true,
		CheckBackupAndConflict: !force,
	})
	s.reportNotices()
	if err != nil {
		exitErr("save", err)
	}
	if out == "" {
		exitErr("save", fmt.Errorf("%s was not saved", f.Name))
	}
	printFrame(f)
}
