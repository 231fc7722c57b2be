package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"simplepoker-server/internal/config"
	"simplepoker-server/pkg/db"
)

func main() {
	cfg := config.Instance()

	dbh, err := db.WaitFor(context.Background(), cfg.PGDSN, time.Second*10)
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to database")
	}

	defer dbh.Close()

	if err := db.Migrate(dbh, cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}
}
