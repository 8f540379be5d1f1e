package main

import (
	"os"

	"github.com/golang/glog"

	"github.com/rcliao/framestore/internal/cli"
)

func main() {
	err := cli.RootCmd.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
