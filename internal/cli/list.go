package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List framesets across all roots",
		Run:   runList,
	}

	framesetCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	names := s.ListFramesets()
	if formatFlag == "text" {
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}
	printJSON(names)
}
