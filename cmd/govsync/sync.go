package govsync

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/govkit/govsync/internal/metrics"
	"github.com/govkit/govsync/proposals"
	"github.com/govkit/govsync/types"
)

type syncOutput struct {
	Snapshot *types.Snapshot       `json:"snapshot"`
	Views    []types.ProposalView `json:"proposals"`
}

func buildSyncCmd(flags *globalFlags) *cobra.Command {
	var actionable bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one synchronization pass and print the snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				snap, err := a.sync.Refresh(ctx)
				if err != nil {
					return err
				}

				views := a.sync.Views(time.Now())
				if actionable {
					views = proposals.Actionable(views)
				}

				return printJSON(cmd.OutOrStdout(), syncOutput{Snapshot: snap, Views: views})
			})
		},
	}

	cmd.Flags().BoolVar(&actionable, "actionable", false, "Only list proposals that can still be approved or executed")

	return cmd
}

func buildWatchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh periodically and serve Prometheus metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			ctx, a, err := setup(cmd.Context(), flags, metrics.New(reg))
			if err != nil {
				return err
			}
			defer a.Close()

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
			srv := &http.Server{
				Addr:              a.cfg.MetricsAddr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Infof("serving metrics on %s", a.cfg.MetricsAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			watchErr := a.sync.Watch(ctx, a.cfg.RefreshInterval)

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; err != nil {
				return err
			}
			if errors.Is(watchErr, context.Canceled) {
				return nil
			}

			return watchErr
		},
	}
}
