package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTML dashboard and the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.load()
			if err != nil {
				return err
			}
			if port != "" {
				c.Config.Server.Port = port
			}
			gin.SetMode(c.Config.Server.GinMode)
			if err := c.InitServer(); err != nil {
				return err
			}
			return c.Server.Start(":" + c.Config.Server.Port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (overrides PORT)")
	return cmd
}
