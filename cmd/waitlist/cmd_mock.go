package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tabsye/waitlist/logger"
	"github.com/tabsye/waitlist/mock"
)

var mockAddr string

// mockCmd serves the local stand-in for the remote waitlist API
var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a local mock of the waitlist API",
	Long: `Serve /api/waitlist/count, /api/waitlist/add and /api/waitlist/exists
from memory. Point WAITLIST_API_URL at it for local development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !logger.IsDev() {
			gin.SetMode(gin.ReleaseMode)
		}
		addr := cfg.Mock.Addr
		if mockAddr != "" {
			addr = mockAddr
		}
		return mock.New().ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	mockCmd.Flags().StringVar(&mockAddr, "addr", "", "listen address (default WAITLIST_MOCK_ADDR)")
}
