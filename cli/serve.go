// ABOUTME: Serve subcommand
// ABOUTME: Runs the HTTP API and the analyzer websocket bridge until interrupted
package cli

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/observability"
	"github.com/harperreed/acctnotes/store"
	"github.com/harperreed/acctnotes/web"
)

// ServeCommand starts the web server on addr unless --addr overrides it
func ServeCommand(ctx context.Context, st *store.Store, session *analyzer.Session, logger *zap.Logger, metrics *observability.Metrics, addr string, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	listen := fs.String("addr", addr, "Listen address")
	_ = fs.Parse(args)

	logger.Info("serving workspace", zap.String("addr", *listen), zap.Int("customers", len(st.List())))
	return web.NewServer(st, session, logger, metrics).ListenAndServe(ctx, *listen)
}
