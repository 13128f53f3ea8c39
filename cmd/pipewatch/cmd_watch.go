package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/systemcrafter/pipewatch/internal/api"
	"github.com/systemcrafter/pipewatch/internal/config"
	"github.com/systemcrafter/pipewatch/internal/connection"
	"github.com/systemcrafter/pipewatch/internal/projection"
	"github.com/systemcrafter/pipewatch/internal/subscription"
	"github.com/systemcrafter/pipewatch/internal/version"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <project-id>",
	Short: "Stream live pipeline events for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

// restClient builds the REST client from config, logging in when no
// pre-issued token is configured. Returns nil when no base URL is set.
func restClient(ctx context.Context, cfg *config.Config) (*api.Client, error) {
	if cfg.API.BaseURL == "" {
		return nil, nil
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Token,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	if cfg.API.Token == "" && cfg.API.Email != "" {
		if _, err := client.Login(ctx, cfg.API.Email, cfg.API.Password); err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
	}

	return client, nil
}

func managerConfig(cfg *config.Config, credential string) connection.ManagerConfig {
	mgrCfg := connection.DefaultManagerConfig()
	mgrCfg.URL = cfg.Stream.WSURL
	mgrCfg.Credential = credential
	mgrCfg.HeartbeatInterval = cfg.Stream.HeartbeatInterval
	mgrCfg.ReconnectBaseDelay = cfg.Stream.ReconnectBaseDelay
	mgrCfg.ReconnectMaxDelay = cfg.Stream.ReconnectMaxDelay
	mgrCfg.MaxReconnectAttempts = cfg.Stream.MaxReconnectAttempts
	mgrCfg.BufferSize = cfg.Stream.BufferSize
	return mgrCfg
}

func runWatch(cmd *cobra.Command, args []string) error {
	projectKey := args[0]

	cfg := loadConfig()
	logger := setupLogging(cfg)

	logger.Info("starting pipewatch",
		"version", version.Version,
		"commit", version.Commit,
		"project", projectKey,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rest, err := restClient(ctx, cfg)
	if err != nil {
		return err
	}

	credential := cfg.API.Token
	if rest != nil {
		credential = rest.Token()
	}

	var resyncClient *api.Client
	if cfg.Stream.Resync {
		resyncClient = rest
	}

	hub := subscription.NewHub(managerConfig(cfg, credential), resyncClient, logger)
	defer hub.Close()

	deltaCh := make(chan projection.Delta, 256)
	stateCh := make(chan connection.Status, 16)

	g, ctx := errgroup.WithContext(ctx)

	_, err = hub.Acquire(ctx, projectKey, subscription.Callbacks{
		OnDelta: func(d projection.Delta) {
			select {
			case deltaCh <- d:
			case <-ctx.Done():
			}
		},
		OnState: func(st connection.Status) {
			select {
			case stateCh <- st:
			case <-ctx.Done():
			}
		},
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", projectKey, err)
	}

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case d := <-deltaCh:
				printDelta(d)
			case st := <-stateCh:
				if st.State == connection.StateFailed {
					return fmt.Errorf("connection failed after %d reconnect attempts",
						cfg.Stream.MaxReconnectAttempts)
				}
				printState(st)
			}
		}
	})

	err = g.Wait()
	logger.Info("shutting down")
	return err
}

func printDelta(d projection.Delta) {
	switch d.Kind {
	case projection.DeltaTask:
		t := d.Task
		line := fmt.Sprintf("task %s [%s] %s %d%%", t.ID, t.AgentKind, t.Status, t.Progress)
		if t.ErrorText != "" {
			line += " error: " + t.ErrorText
		}
		fmt.Fprintln(os.Stdout, line)
	case projection.DeltaLog:
		fmt.Fprintf(os.Stdout, "[%s] %s\n", d.Entry.Source, d.Entry.Text)
	case projection.DeltaArtifact:
		fmt.Fprintf(os.Stdout, "artifact created: %s\n", d.ArtifactID)
	case projection.DeltaStatus:
		fmt.Fprintf(os.Stdout, "project status: %s\n", d.Status)
	}
}

func printState(st connection.Status) {
	if st.State == connection.StateReconnecting {
		fmt.Fprintf(os.Stdout, "-- %s (attempt %d)\n", st.State, st.Attempt)
		return
	}
	fmt.Fprintf(os.Stdout, "-- %s\n", st.State)
}
