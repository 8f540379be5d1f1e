package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/framestore/internal/watch"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print frames changed on disk until interrupted",
		Run:   runWatch,
	}

	RootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	w, err := watch.New(s.Roots(), s.cfg.Format)
	if err != nil {
		exitErr("watch", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = w.Run(ctx, func(e watch.Event) {
		s.Evict(e.Name)
		if formatFlag == "text" {
			fmt.Printf("%s %s\n", e.Op, e.Name)
			return
		}
		printJSON(e)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		exitErr("watch", err)
	}
}
