package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"dat-workbench/core/loader"
	"dat-workbench/core/logger"
	"dat-workbench/core/middleware/auth"
	"dat-workbench/core/middleware/rayid"
	"dat-workbench/feature/integrity"
	"dat-workbench/feature/session"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the snapshot API server",
	Long:  `Starts a session and exposes its state and processing triggers over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := loadRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()
		logg := rt.logger

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(session.NewFeature(rt.session))
		mgr.Register(integrity.NewFeature(rt.integrity))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Debug("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server",
				zap.String("port", rt.cfg.Server.Port),
				zap.Bool("auth", rt.cfg.Server.AuthEnabled()),
			)
			errCh <- app.Listen(rt.cfg.Server.Addr())
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case <-c:
		case err := <-errCh:
			return err
		}
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
