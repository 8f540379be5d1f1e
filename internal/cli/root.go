// Package cli implements the framestore CLI commands.
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/rcliao/framestore/internal/config"
	"github.com/rcliao/framestore/internal/format"
	"github.com/rcliao/framestore/internal/journal"
	"github.com/rcliao/framestore/internal/peer"
	"github.com/rcliao/framestore/internal/store"
)

var (
	configPath string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "framestore",
	Short: "Versioned frame store",
	Long:  "Create, load, save and archive numbered frames organized into framesets on disk.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// glog reads its flags from the go flag set.
		flag.CommandLine.Parse(nil)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $FRAMESTORE_CONFIG or $XDG_CONFIG_HOME/framestore/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

// handle is an open store plus the resources it holds.
type handle struct {
	*store.Store
	cfg     *config.Config
	journal *journal.Journal
	notices *store.LogNotifier
	closers []io.Closer
}

// reportNotices writes messages the store raised to stderr.
func (h *handle) reportNotices() {
	for _, m := range h.notices.Drain() {
		if m.Error {
			fmt.Fprintf(os.Stderr, "error: %s\n", m.Text)
			continue
		}
		fmt.Fprintf(os.Stderr, "%s\n", m.Text)
	}
}

func (h *handle) Close() {
	for _, c := range h.closers {
		if err := c.Close(); err != nil {
			glog.Warningf("close: %v", err)
		}
	}
}

func openStore() (*handle, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	h := &handle{cfg: cfg, notices: store.NewLogNotifier(0)}

	formats := format.NewRegistry()
	if err := formats.SetPreferred(cfg.Format); err != nil {
		return nil, err
	}

	opts := store.Options{
		Roots:            cfg.Roots,
		Trash:            cfg.Trash,
		User:             cfg.User,
		MaxCache:         cfg.MaxCache,
		DefaultTemplate:  cfg.DefaultTemplate,
		ProfileFramesets: cfg.ProfileFramesets,
		Formats:          formats,
		Notifier:         h.notices,
		Session:          store.NewSession(nil, cfg.IdleThreshold),
	}

	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return nil, err
		}
		h.journal = j
		h.closers = append(h.closers, j)
		opts.Journal = j
	}
	if cfg.Peer != "" {
		p, err := peer.OpenSQLite(cfg.Peer)
		if err != nil {
			h.Close()
			return nil, err
		}
		h.closers = append(h.closers, p)
		opts.Peer = p
	}

	for _, root := range cfg.Roots {
		if err := os.MkdirAll(root, 0o755); err != nil {
			h.Close()
			return nil, fmt.Errorf("create root %s: %w", root, err)
		}
	}

	s, err := store.New(opts)
	if err != nil {
		h.Close()
		return nil, err
	}
	h.Store = s
	return h, nil
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	glog.Flush()
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
