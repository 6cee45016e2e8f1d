package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
)

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type server struct {
	controller controller
}

func newRouter(allowedOrigins []string, c controller) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID, gin.LoggerWithFormatter(lib.JsonLogFormatter), cors.New(corsConfig(allowedOrigins)))
	server{controller: c}.RegisterRoutes(r)
	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", lib.RequestIDKey},
		ExposeHeaders: []string{lib.RequestIDKey},
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			conf.AllowAllOrigins = true
			return conf
		}
	}
	if len(allowedOrigins) == 0 {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = allowedOrigins
	return conf
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.POST("/", validateBody, s.Analyse)
	r.GET("/healthz", s.Health)
}

func (s server) Analyse(c *gin.Context) {
	var req lib.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(http.StatusBadRequest, fmt.Errorf("invalid request body - must be json with sentence and cursor_index: %w", err)))
		return
	}
	if req.CursorIndex < 0 {
		handleError(c, NewHttpError(http.StatusBadRequest, errors.New("cursor_index must not be negative")))
		return
	}

	response, err := s.controller.Analyse(req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (s server) Health(c *gin.Context) {
	if !s.controller.Ready() {
		c.JSON(http.StatusServiceUnavailable, map[string]interface{}{"status": "analysis cache unavailable"})
		return
	}
	c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
}

func requestID(c *gin.Context) {
	id := c.GetHeader(lib.RequestIDKey)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(lib.RequestIDKey, id)
	c.Header(lib.RequestIDKey, id)
	c.Next()
}

func validateBody(c *gin.Context) {
	if c.Request.Body == nil {
		handleError(c, NewHttpError(http.StatusBadRequest, errors.New("request body missing")))
	} else if _, err := c.Request.Body.Read(nil); err == io.EOF {
		handleError(c, NewHttpError(http.StatusBadRequest, errors.New("request body missing")))
	} else {
		c.Next()
	}
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		err = errors.New("abort called on nil error")
	}
	var httpErr HttpError
	if errors.As(err, &httpErr) {
		abort(c, httpErr.code, httpErr.error)
		return
	}
	abort(c, http.StatusInternalServerError, err)
}

func abort(c *gin.Context, code int, err error) {
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString(lib.RequestIDKey)).Msg("analysis failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, map[string]interface{}{
		"status":  code,
		"message": err.Error(),
	})
}
