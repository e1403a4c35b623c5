package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	block "github.com/dangdungcntt/go-block"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr  string
		index string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve views over HTTP, one view per path",
		Long: `serve maps request paths to views: /pages/about renders "pages.about" and
/ renders the index view. Query parameters are passed as view data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine()
			if err != nil {
				return err
			}
			router := newRouter(e, opts.logger, index)
			opts.logger.Info().Str("addr", addr).Msg("Serving views")
			return router.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&index, "index", "index", "view rendered for /")
	return cmd
}

func newRouter(e *block.Engine, logger zerolog.Logger, index string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.HTMLRender = block.NewHTMLRender(e)

	router.GET("/*path", func(c *gin.Context) {
		v := viewFor(c, index)
		if !e.Has(v.Name()) {
			c.String(http.StatusNotFound, "view %q not found", v.Name())
			return
		}
		c.HTML(v.Status(), v.Name(), v.Data())
	})
	return router
}

func viewFor(c *gin.Context, index string) block.View {
	name := strings.Trim(c.Param("path"), "/")
	if name == "" {
		name = index
	}
	name = strings.ReplaceAll(name, "/", ".")

	data := gin.H{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			data[key] = values[0]
		}
	}
	return block.NewView(name, data)
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		event := logger.Info()
		if len(c.Errors) > 0 {
			event = logger.Error().Str("error", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request served")
	}
}
