package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/framestore/internal/model"
	"github.com/rcliao/framestore/internal/store"
)

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Allocate, read, edit and delete frames",
}

func init() {
	cmd := &cobra.Command{
		Use:   "new <frameset>",
		Short: "Allocate and save the next frame of a frameset",
		Args:  cobra.ExactArgs(1),
		Run:   runFrameNew,
	}
	cmd.Flags().StringP("title", "t", "", "Title of the new frame")
	cmd.Flags().String("template", "", "Frame to clone instead of the frameset's frame 0")

	frameCmd.AddCommand(cmd)
	RootCmd.AddCommand(frameCmd)
}

func runFrameNew(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	template, _ := cmd.Flags().GetString("template")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	f, err := s.CreateFrame(cmd.Context(), store.CreateFrameParams{
		Frameset: args[0],
		Title:    title,
		Template: template,
	})
	if err != nil {
		exitErr("new frame", err)
	}
	if _, err := s.Save(cmd.Context(), f, store.SaveOptions{IncrementStats: true}); err != nil {
		exitErr("save", err)
	}
	s.reportNotices()
	printFrame(f)
}

type frameView struct {
	Name string `json:"name"`
	Root string `json:"root"`
	*model.Frame
}

func printFrame(f *model.Frame) {
	if formatFlag == "text" {
		fmt.Printf("%s (version %d, owner %s)\n", f.Name, f.Version, f.Owner)
		for _, it := range f.Items {
			if it.Link != "" {
				fmt.Printf("  %d. %s -> %s\n", it.ID, it.Text, it.Link)
				continue
			}
			fmt.Printf("  %d. %s\n", it.ID, it.Text)
		}
		return
	}
	printJSON(frameView{Name: f.Name.String(), Root: f.Path, Frame: f})
}
