// Package main provides the read-only news web server.
package main

import (
	"context"

	"github.com/spf13/cobra"

	"willaykuna/internal/cli"
	"willaykuna/internal/web"
)

func main() {
	cli.Main(newRootCmd())
}

func newRootCmd() *cobra.Command {
	var (
		flags cli.Flags
		addr  string
	)

	cmd := &cobra.Command{
		Use:           "web",
		Short:         "Serve translated news with text and audio",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.Load()
			if err != nil {
				return err
			}

			if addr != "" {
				rt.Config.Web.Addr = addr
			}

			return run(cmd.Context(), rt)
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides web.addr)")

	return cmd
}

func run(parent context.Context, rt *cli.Runtime) error {
	ctx, cancel := cli.SignalContext(parent)
	defer cancel()

	rt.Metrics.RegisterRuntime()

	server, err := web.NewServer(rt.Config, rt.Log, rt.Metrics)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		rt.Log.Info("shutdown signal received")
	}

	return server.Shutdown(context.Background())
}
