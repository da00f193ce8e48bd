package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ChiaveLabs/chiave/internal/core/application"
	"github.com/ChiaveLabs/chiave/internal/interface/rest/handlers"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port         uint32
	CallerHeader string
}

type Service struct {
	config Config
	server *http.Server
}

func NewService(config Config, appSvc *application.Service) (*Service, error) {
	if appSvc == nil {
		return nil, fmt.Errorf("missing application service")
	}

	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(appSvc, config.CallerHeader)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      router,
	}

	return &Service{config, server}, nil
}

func (s *Service) Start() error {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server failed")
		}
	}()
	log.Infof("started listening at %s", s.server.Addr)
	return nil
}

func (s *Service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// nolint:all
	s.server.Shutdown(ctx)
	log.Info("stopped http server")
}

// NewRouter builds the full route tree served by the daemon.
func NewRouter(appSvc *application.Service, callerHeader string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), CallerMiddleware(callerHeader))

	h := handlers.NewHandler(appSvc)
	v1 := router.Group("/v1")

	v1.POST("/swaps", h.CreateSwap)
	v1.POST("/swaps/withdraw", h.Withdraw)
	v1.POST("/swaps/refund", h.Refund)

	v1.GET("/swaps", h.ListSwaps)
	v1.GET("/swaps/active", h.ActiveSwaps)
	v1.GET("/swaps/expired", h.ExpiredSwaps)
	v1.GET("/swaps/count", h.SwapCount)
	v1.GET("/swap/:id", h.GetSwap)

	v1.GET("/hash", h.HashPreimage)
	v1.GET("/verify", h.VerifyPreimage)

	v1.GET("/info", h.Info)
	v1.GET("/info/caller", h.Caller)
	v1.GET("/info/time", h.CurrentTime)

	return router
}
