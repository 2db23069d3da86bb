package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tabsye/waitlist/config"
	"github.com/tabsye/waitlist/logger"
	"github.com/tabsye/waitlist/signup"
	"github.com/tabsye/waitlist/store"
	"github.com/tabsye/waitlist/tracker"
	"github.com/tabsye/waitlist/waitlist"
)

var (
	// Global flags
	envFile string

	cfg       config.Config
	logCloser io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "waitlist",
	Short: "Waitlist signup client with local duplicate tracking",
	Long: `waitlist submits coming-soon signups to the remote waitlist API.

Successful submissions are remembered locally for 24 hours so the same
email or mobile number is not sent twice. The remote API stays the
authority on duplicates.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}
		logCloser, err = logger.Setup(cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "optional .env file to load")

	rootCmd.AddCommand(submitCmd, checkCmd, countCmd, recordsCmd, mockCmd)
}

// app holds the objects built at the application boundary for one command.
type app struct {
	store   store.Store
	tracker *tracker.Tracker
	client  *waitlist.Client
	signup  *signup.Service
}

func newApp(c config.Config) (*app, error) {
	st, err := store.Open(c.Store)
	if err != nil {
		return nil, err
	}
	tr := tracker.New(st, tracker.WithLogger(logger.New("tracker")))
	client := waitlist.NewClient(
		waitlist.WithAPIBase(c.API.URL),
		waitlist.WithTimeout(c.API.Timeout),
	)
	return &app{
		store:   st,
		tracker: tr,
		client:  client,
		signup:  signup.New(tr, client, signup.WithRemoteExists(c.API.RemoteExists)),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
