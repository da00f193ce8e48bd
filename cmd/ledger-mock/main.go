package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const port = 9100

func main() {
	logrus.SetLevel(logrus.DebugLevel)

	handler := newLedgerMockHandler()

	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/v1/ledgers/:ledgerId/transfers", handler.transfer)
	router.GET("/v1/ledgers/:ledgerId/transfers", handler.listTransfers)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		Handler:      router,
	}

	logrus.Infof("listening on :%d", port)
	if err := server.ListenAndServe(); err != nil {
		logrus.Fatalf("failed to serve: %v", err)
	}
}
