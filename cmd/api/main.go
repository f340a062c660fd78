package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"crudefi-api/internal/model"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/server"
	"crudefi-api/internal/ws"
	"crudefi-api/pkg/config"
	"crudefi-api/pkg/database"
	"crudefi-api/pkg/jwt"
	"crudefi-api/pkg/logger"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env file not found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log := logger.Setup(cfg.Log, cfg.IsProduction())

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	// 3. Seed default work roles and admin user
	if err := server.Seed(db, cfg.Seed); err != nil {
		log.WithError(err).Fatal("Failed to seed database")
	}

	// 4. Setup WebSocket Hub
	hub := ws.NewHub()
	go hub.Run()

	// 5. Build the app
	app, err := server.NewApp(server.Deps{
		Config:    cfg,
		DB:        db,
		Table:     permission.DefaultTable(),
		Tokens:    jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.Issuer),
		Hub:       hub,
		AccessLog: true,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to build routes")
	}

	// 6. Graceful Shutdown
	go func() {
		log.WithField("port", cfg.Server.Port).Info("CrudeFi API listening")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	hub.Stop()
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("Server exited")
}
