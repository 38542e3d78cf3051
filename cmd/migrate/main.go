package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/propsight/propsight/internal/models"
	"github.com/propsight/propsight/internal/store"
	"github.com/propsight/propsight/pkg/config"
	"github.com/propsight/propsight/pkg/database"
)

func main() {
	down := flag.Bool("down", false, "drop all tables instead of migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *down {
		err = db.Migrator().DropTable(
			&models.AnalyticsRecord{},
			&models.GameLog{},
			&models.PlayerProp{},
			&models.IngestionRun{},
		)
		if err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("All tables dropped")
		return
	}

	st := store.New(db, logrus.StandardLogger())
	if err := st.AutoMigrate(); err != nil {
		logrus.Fatalf("Migration failed: %v", err)
	}
	logrus.Info("Migration complete")
}
