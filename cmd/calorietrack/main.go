// Command calorietrack is the device-side client. It keeps the food log in a
// local SQLite database and mirrors it to the remote API when signed in.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"calorietrack/internal/adapter/apiclient"
	"calorietrack/internal/adapter/sqlite"
	"calorietrack/internal/client"
	"calorietrack/internal/config"
	"calorietrack/internal/domain"
	"calorietrack/internal/logging"

	"github.com/spf13/cobra"
)

// device holds everything a command needs. It is built before any
// subcommand runs.
type device struct {
	store   *sqlite.Store
	api     *apiclient.Client
	auth    *client.AuthService
	sync    *client.SyncService
	tracker *client.Tracker
	log     *slog.Logger
}

func openDevice(ctx context.Context) (*device, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	api := apiclient.New(cfg.APIURL, store, &http.Client{Timeout: 30 * time.Second})
	auth := client.NewAuthService(api, store, logger)
	auth.OnAuthStateChanged(ctx, func(u *domain.User) {
		switch {
		case u == nil:
			logger.Debug("auth state", "state", "signed out")
		case u.IsGuest:
			logger.Debug("auth state", "state", "guest", "user_id", u.ID)
		default:
			logger.Debug("auth state", "state", "signed in", "user_id", u.ID)
		}
	})

	return &device{
		store:   store,
		api:     api,
		auth:    auth,
		sync:    client.NewSyncService(store, api, auth, logger),
		tracker: client.NewTracker(store, api, auth, logger),
		log:     logger,
	}, nil
}

func (d *device) close() error {
	d.tracker.Wait()
	return d.store.Close()
}

func newRootCmd() *cobra.Command {
	var dev *device

	root := &cobra.Command{
		Use:           "calorietrack",
		Short:         "Track calories locally and sync them to the cloud",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			d, err := openDevice(cmd.Context())
			if err != nil {
				return err
			}
			dev = d
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if dev == nil {
				return nil
			}
			return dev.close()
		},
	}

	get := func() *device { return dev }
	root.AddCommand(
		guestCmd(get),
		signUpCmd(get),
		signInCmd(get),
		signOutCmd(get),
		whoamiCmd(get),
		healthCmd(get),
		foodsCmd(get),
		mealsCmd(get),
		summaryCmd(get),
		settingsCmd(get),
		planCmd(get),
		syncCmd(get),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
