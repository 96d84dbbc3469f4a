package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.firedancer.io/quartz/cmd/quartz/bench"
	"go.firedancer.io/quartz/cmd/quartz/encode"
	"go.firedancer.io/quartz/cmd/quartz/simulate"
	"k8s.io/klog/v2"
)

var cmd = cobra.Command{
	Use:   "quartz",
	Short: "Cross-program call toolkit",
}

func init() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(
		&bench.Cmd,
		&encode.Cmd,
		&simulate.Cmd,
	)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	cobra.CheckErr(cmd.ExecuteContext(ctx))
}
