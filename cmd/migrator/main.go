package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tennergrid/tenner-server/internal/config"
	"github.com/tennergrid/tenner-server/internal/database"
	"github.com/tennergrid/tenner-server/migrations"
)

func main() {
	log := logrus.New()
	if config.Development() {
		log.SetLevel(logrus.DebugLevel)
	}

	migrator, err := database.Migrate(migrations.Files)
	if err != nil {
		log.WithError(err).Error("failed to migrate database")
		os.Exit(1)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
