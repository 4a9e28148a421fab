package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rmaslov/journal/internal/config"
	"github.com/rmaslov/journal/internal/es"
	"github.com/rmaslov/journal/internal/handlers"
	"github.com/rmaslov/journal/internal/logging"
	"github.com/rmaslov/journal/internal/middleware/auth"
	loggingmw "github.com/rmaslov/journal/internal/middleware/logging"
	"github.com/rmaslov/journal/internal/mykafka"
	"github.com/rmaslov/journal/internal/token"
	httpserver "github.com/rmaslov/journal/internal/transport/http"
	"github.com/rmaslov/journal/internal/upload"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	tokens := token.NewService([]byte(configuration.JWT_SECRET))

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	uploads, err := upload.NewSaver(configuration.UPLOAD_DIR)
	if err != nil {
		log.Fatal(err)
	}

	gate := &auth.Gate{DB: db, Tokens: tokens, Secure: configuration.IsProduction()}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Gate:          gate,
		PageHandler:   &handlers.PageHandler{},
		AuthHandler:   &handlers.AuthHandler{DB: db, Gate: gate, Tokens: tokens, Producer: prod, Uploads: uploads},
		EntryHandler:  &handlers.EntryHandler{DB: db, Producer: prod, Uploads: uploads, ES: esClient, Index: "entries"},
		AdminHandler:  &handlers.AdminHandler{DB: db, Producer: prod},
		SearchHandler: handlers.NewSearchHandler(esClient, "entries"),
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
