package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "counter <frameset>",
		Short: "Show the number the next frame of a frameset will get",
		Args:  cobra.ExactArgs(1),
		Run:   runCounter,
	}

	RootCmd.AddCommand(cmd)
}

func runCounter(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	next, err := s.NextNumber(cmd.Context(), args[0])
	if err != nil {
		exitErr("counter", err)
	}
	fmt.Println(next)
}
