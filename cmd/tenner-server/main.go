package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/tennergrid/tenner-server/internal/app"
	"github.com/tennergrid/tenner-server/internal/config"
	"github.com/tennergrid/tenner-server/internal/tenner"
	"github.com/tennergrid/tenner-server/migrations"
)

var log = logrus.New()

func setupLogging() {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if logFile := config.LogFile(); logFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      logLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			log.WithError(err).Fatal("unable to create log file hook")
		}
		log.AddHook(hook)
	}

	tenner.Log = log
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	setupLogging()

	a := app.New(log, migrations.Files)
	if err := a.Start(mainCtx); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
