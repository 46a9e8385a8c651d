package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/you/go-flyniki-flights/internal/chrono"
	"github.com/you/go-flyniki-flights/internal/config"
	"github.com/you/go-flyniki-flights/internal/logger"
	"github.com/you/go-flyniki-flights/internal/present"
	"github.com/you/go-flyniki-flights/internal/providers"
	"github.com/you/go-flyniki-flights/internal/query"
	"github.com/you/go-flyniki-flights/internal/service"
)

const (
	exitOK         = 0
	exitOther      = 1
	exitValidation = 2
	exitNetwork    = 3
	exitVendor     = 4
)

// ExitCode maps a search failure onto the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	switch service.Classify(err) {
	case service.ClassValidation:
		return exitValidation
	case service.ClassNetwork:
		return exitNetwork
	case service.ClassVendorRejected, service.ClassNoResults, service.ClassMalformedOffer:
		return exitVendor
	default:
		return exitOther
	}
}

type options struct {
	table    bool
	logLevel string
}

// loadConfig reads configuration and installs the logger. The --log-level
// flag wins over the config value when set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	logger.New(cfg.LogLevel, cmd.ErrOrStderr())
	return cfg, nil
}

func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "flights DEPARTURE DESTINATION OUTBOUND_DATE [RETURN_DATE]",
		Short: "Search flyniki.com for the cheapest one-way or round-trip flights.",
		Long: "Search flyniki.com for flights between two IATA airport codes.\n" +
			"Dates use the YYYY-MM-DD format; omit RETURN_DATE for a one-way search.",
		Args:          cobra.RangeArgs(3, 4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			req := query.Request{
				Departure:    args[0],
				Destination:  args[1],
				OutboundDate: args[2],
			}
			if len(args) == 4 {
				req.ReturnDate = args[3]
			}
			svc := service.NewSearchService(providers.NewFlyniki(cfg), chrono.NewStandardTime())
			return runSearch(cmd.Context(), svc, req, opts.table, cmd.OutOrStdout())
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.Flags().BoolVar(&opts.table, "table", false, "render results as a table")
	root.AddCommand(newServeCmd(opts))
	return root
}

func runSearch(ctx context.Context, svc *service.SearchService, req query.Request, asTable bool, out io.Writer) error {
	res, err := svc.Search(ctx, req)
	if err != nil {
		return err
	}
	if asTable {
		present.WriteTable(out, res)
		return nil
	}
	_, _ = fmt.Fprint(out, "\nFlights found:\n\n")
	return present.WriteText(out, res)
}

func ExecuteContext(ctx context.Context) int {
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(os.Stderr, err)
	return ExitCode(err)
}
