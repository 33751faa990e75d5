package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/relay/pkg/api"
	"github.com/travigo/relay/pkg/app"
	"github.com/travigo/relay/pkg/mux_api"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the fiber and the mux web api side by side",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Value: ":8080",
				Usage: "listen target for the fiber server",
			},
			&cli.StringFlag{
				Name:  "mux-listen",
				Value: ":8081",
				Usage: "listen target for the mux server",
			},
		},
		Action: func(c *cli.Context) error {
			application, err := app.Load(c.String("config"))
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fiberServer := api.NewServer(application)
			muxServer := mux_api.NewServer(c.String("mux-listen"), application)

			servers := pool.New().WithContext(ctx).WithCancelOnError()

			servers.Go(func(ctx context.Context) error {
				go func() {
					<-ctx.Done()
					fiberServer.ShutdownWithTimeout(10 * time.Second)
				}()

				log.Info().Str("listen", c.String("listen")).Msg("Starting fiber web api")
				return fiberServer.Listen(c.String("listen"))
			})

			servers.Go(func(ctx context.Context) error {
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					muxServer.Shutdown(shutdownCtx)
				}()

				log.Info().Str("listen", c.String("mux-listen")).Msg("Starting mux web api")
				if err := muxServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			return servers.Wait()
		},
	}
}
