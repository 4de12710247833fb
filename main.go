package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"library-backend/internal/catalog/authors"
	"library-backend/internal/catalog/books"
	"library-backend/internal/catalog/categories"
	"library-backend/internal/lending/borrows"
	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/cache"
	"library-backend/internal/platform/db"
	"library-backend/internal/platform/storage"
)

func main() {
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	log.Printf("[INFO] mode:%s\n", cfg.Mode)

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	readCache := cache.NewMemory()
	files := storage.NewFileStore(cfg.Upload.Dir)
	secret := []byte(cfg.Auth.Secret)

	authSvc := auth.NewService(conn, files, readCache, secret, cfg.Auth.TokenTTLOrDefault())
	borrowSvc := borrows.NewService(conn, readCache)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// /api/v1
	public := r.Group("/api/v1")
	auth.RegisterPublicRoutes(public, authSvc)

	api := r.Group("/api/v1")
	api.Use(auth.RequireAuth(secret))
	auth.RegisterRoutes(api, authSvc)
	authors.RegisterRoutes(api, authors.NewService(conn))
	categories.RegisterRoutes(api, categories.NewService(conn))
	books.RegisterRoutes(api, books.NewService(conn, files))
	borrows.RegisterRoutes(api, borrowSvc)

	sweeper := borrows.NewSweeper(borrowSvc, cfg.Sweeper.SweepInterval())
	sweeper.Start()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
