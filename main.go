package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/developer-az/food-tracker/internal/config"
	"github.com/developer-az/food-tracker/internal/database"
	"github.com/developer-az/food-tracker/internal/router"
	"github.com/developer-az/food-tracker/internal/util"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yaml)")
	loadSamples := flag.Bool("load-sample-foods", false, "load the sample food catalog and exit")
	flag.Parse()

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	// load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := util.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	// init database
	db, err := database.Init(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("init database")
	}
	defer database.Close(db)

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migrate database")
	}

	if *loadSamples {
		if err := seed(db, true); err != nil {
			log.WithError(err).Fatal("load sample foods")
		}
		return
	}
	if cfg.App.SeedOnStart {
		if err := seed(db, false); err != nil {
			log.WithError(err).Fatal("load sample foods")
		}
	}

	// setup router
	r, err := router.SetupRouter(cfg, db, log)
	if err != nil {
		log.WithError(err).Fatal("setup router")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.WithFields(logrus.Fields{"addr": addr, "driver": cfg.Database.Driver}).Info("server listening")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("run server")
	}
}

// seed loads the sample catalog. With verbose set it prints one line per
// food the way the management command does.
func seed(db *gorm.DB, verbose bool) error {
	report := func(name string, created bool) {
		if !verbose {
			return
		}
		if created {
			fmt.Printf("Created: %s\n", name)
		} else {
			fmt.Printf("Already exists: %s\n", name)
		}
	}
	n, err := database.LoadSampleFoods(context.Background(), db, report)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Successfully loaded %d new foods into the database!\n", n)
	}
	return nil
}
