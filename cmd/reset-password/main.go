package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"crudefi-api/internal/repository"
	"crudefi-api/pkg/config"
	"crudefi-api/pkg/database"
	"crudefi-api/pkg/logger"
)

func main() {
	email := flag.StringP("email", "e", "", "email of the account to reset")
	password := flag.StringP("password", "p", "", "new password (at least 6 characters)")
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		fmt.Fprintln(os.Stderr, "usage: reset-password --email <email> --password <new password>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		logrus.Info(".env file not found, using process environment")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log := logger.Setup(cfg.Log, cfg.IsProduction())

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	userRepo := repository.NewUserRepo(db)
	user, err := userRepo.FindByEmail(*email)
	if err != nil {
		log.WithError(err).WithField("email", *email).Fatal("User not found")
	}
	if err := user.SetPassword(*password); err != nil {
		log.WithError(err).Fatal("Failed to hash password")
	}
	if err := userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		log.WithError(err).Fatal("Failed to update password")
	}
	// Existing sessions end with the old password.
	if err := userRepo.UpdateTokenVersion(user.ID, uuid.NewString()); err != nil {
		log.WithError(err).Fatal("Failed to revoke sessions")
	}

	log.WithField("email", user.Email).Info("Password reset")
}
