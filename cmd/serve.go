package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muntasir-islam/seo-audit-tool/internal/api"
	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
	"github.com/muntasir-islam/seo-audit-tool/internal/fetch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the audit pipeline as a REST API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		authToken, _ := cmd.Flags().GetString("auth-token")
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
		corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
		rateLimit, _ := cmd.Flags().GetInt("rate-limit")
		rateBurst, _ := cmd.Flags().GetInt("rate-burst")
		jobTimeout, _ := cmd.Flags().GetDuration("job-timeout")
		maxJobs, _ := cmd.Flags().GetInt("max-jobs")

		// Initialize structured logger
		zl, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() {
			if err := zl.Sync(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
			}
		}()

		client := fetch.NewClient(fetch.Options{
			Timeout:      time.Duration(cliConfig.Audit.TimeoutSecs) * time.Second,
			UserAgent:    cliConfig.Audit.UserAgent,
			MaxRedirects: cliConfig.Audit.MaxRedirects,
		})
		auditor := audit.New(client, zl.Sugar())

		metrics := api.NewMetrics()
		jobs := api.NewJobManager(auditor)
		jobs.SetTimeout(jobTimeout)
		jobs.SetMaxJobs(maxJobs)
		jobs.SetMetrics(metrics)

		server := api.NewServer(api.Config{
			Jobs:        jobs,
			Runs:        &runFileService{},
			AuthToken:   authToken,
			Logger:      zl,
			CORSOrigins: corsOrigins,
			RateLimit:   rateLimit,
			RateBurst:   rateBurst,
			Metrics:     metrics,
		})

		httpServer := &http.Server{
			Addr:         addr,
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		// Channel to listen for errors from the server
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("%s API server listening on %s (results dir: %s)\n", colorInfo("→"), addr, resultsDir)
			fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Block until we receive a signal or an error
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Printf("\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				// Force close if graceful shutdown fails
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}

			fmt.Printf("%s Server shutdown complete\n", colorInfo("✓"))
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Address for the API server")
	serveCmd.Flags().String("auth-token", "", "Optional shared secret for API requests")
	serveCmd.Flags().Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (empty = allow all)")
	serveCmd.Flags().Int("rate-limit", 10, "Rate limit per IP (requests/second, 0 = disabled)")
	serveCmd.Flags().Int("rate-burst", 20, "Rate limit burst size")
	serveCmd.Flags().Duration("job-timeout", 90*time.Second, "Per-audit budget for API jobs")
	serveCmd.Flags().Int("max-jobs", 1000, "Finished jobs retained in memory")
}

// runFileService exposes the CLI's saved runs to the API, reading from the
// same results directory the audit and batch commands write to.
type runFileService struct{}

func (s *runFileService) ListRuns(ctx context.Context) ([]api.RunInfo, error) {
	runs, err := listRuns()
	if err != nil {
		return nil, err
	}
	infos := make([]api.RunInfo, 0, len(runs))
	for _, run := range runs {
		infos = append(infos, api.RunInfo{
			ID:           run.ID,
			StartedAt:    run.StartedAt,
			Targets:      run.Summary.Targets,
			Succeeded:    run.Summary.Succeeded,
			Failed:       run.Summary.Failed,
			AverageScore: run.Summary.AverageScore,
		})
	}
	return infos, nil
}

func (s *runFileService) GetRun(ctx context.Context, id string) ([]byte, error) {
	path, err := resolveRunPath(resultsDir, id, runFileName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path) // #nosec G304 -- path resolved via resolveRunPath within the results dir.
}
