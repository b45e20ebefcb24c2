// Package server exposes the DDL parser over HTTP.
package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sqldef/ddlschema"
	"github.com/sqldef/ddlschema/schema"
)

// Request bodies larger than this are rejected.
const maxBodyBytes = 16 << 20

type Server struct {
	config schema.Config
}

// New returns a server whose requests start from config.
func New(config schema.Config) *Server {
	return &Server{config: config}
}

type parseRequest struct {
	SQL          string   `json:"sql"`
	Dialects     []string `json:"dialects"`
	PerStatement *bool    `json:"perStatement"`
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), cors.Default())

	api := router.Group("/api/v1")
	api.POST("/parse", s.parse)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	return router
}

// HTTPServer wraps Router in an http.Server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// parse accepts either a JSON parseRequest or the raw SQL as a text body. A
// result with errors is still returned, with 422.
func (s *Server) parse(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req parseRequest
	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
	} else {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
		req.SQL = string(body)
	}

	config := s.config
	if len(req.Dialects) > 0 {
		config.Dialects = req.Dialects
	}
	if req.PerStatement != nil {
		config.PerStatement = *req.PerStatement
	}

	result, err := ddlschema.ParseWithConfig(req.SQL, config)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	slog.Debug("Parsed request", "tables", len(result.Tables), "errors", len(result.Errors), "warnings", len(result.Warnings))

	status := http.StatusOK
	if result.HasErrors() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

func fail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": fmt.Sprintf("invalid request: %s", err),
	})
}
