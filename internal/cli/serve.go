package cli

import (
	bidding "memorabilia-auction/internal/biddingService"
	"memorabilia-auction/internal/metrics"
	"memorabilia-auction/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the auction view server against the configured store",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			collector := metrics.NewCollector(reg)

			navigator := bidding.NewNavigator(a.newClient(collector), collector)
			defer navigator.Leave()

			router := server.SetupRouter(navigator, reg)
			return runHTTP(c.Context(), "view server", a.cfg.ListenAddr, router)
		},
	}
}
