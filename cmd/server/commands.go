package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/task-category-api/internal/cache"
	"github.com/yukikurage/task-category-api/internal/config"
	"github.com/yukikurage/task-category-api/internal/database"
	"github.com/yukikurage/task-category-api/internal/handlers"
	"github.com/yukikurage/task-category-api/internal/services"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and indexes, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(loadConfig())
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		log.Println("Migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample categories and tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(loadConfig())
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		seeder := services.NewSeedService(db, services.NewCategoryResolver(nil))
		result, err := seeder.Seed(cmd.Context())
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		log.Printf("Seeded %d categories and %d tasks", result.Categories, result.Tasks)
		return nil
	},
}

// openDatabase connects and migrates; the schema is created once at startup
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		closeDatabase(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()
	gin.SetMode(cfg.GinMode)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	var categoryCache cache.CategoryCache = cache.Noop{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCategoryCache(cfg.RedisURL, cfg.CategoryCacheTTL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisCache.Close()
		log.Printf("Caching categories in Redis (ttl %s)", cfg.CategoryCacheTTL)
		categoryCache = redisCache
	}

	var suggester services.TaskSuggester
	if cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	} else {
		log.Println("OPENAI_API_KEY not set, task generation disabled")
	}

	resolver := services.NewCategoryResolver(categoryCache)
	taskService := services.NewTaskService(db, resolver, suggester)
	categoryService := services.NewCategoryService(db, resolver)

	if cfg.OverdueReportSchedule != "" {
		scheduler := services.NewSchedulerService(time.UTC)
		reporter := services.NewOverdueReporter(taskService)
		if _, err := scheduler.Schedule(cfg.OverdueReportSchedule, func() {
			jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if _, err := reporter.Report(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("overdue report: %v", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule overdue report: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	r := gin.Default()
	handlers.RegisterRoutes(r,
		handlers.NewTaskHandler(taskService),
		handlers.NewCategoryHandler(categoryService),
	)

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	log.Println("Server stopped")
	return nil
}
