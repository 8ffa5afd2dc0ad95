package main

import (
	"cocina/bizerror"
	"cocina/domain"
	"cocina/event"
	"cocina/kitchen/dispatch"
	"cocina/notify"
	"cocina/persistence"
	"cocina/servehttp"
	"cocina/session"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB().AutoMigrate(&domain.Order{}, &domain.OrderItem{}, &domain.Product{},
		&domain.ProductComponent{}, &domain.Chef{}, &event.EventRecord{}).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		notifier, err := notify.Dial(amqpURL)
		if err != nil {
			log.Fatalf("amqp connection failed %v\n", err)
		}
		defer notifier.Close()
		event.EventHandlers = append(event.EventHandlers, notifier.AsEventHandler())
	} else {
		log.Println("AMQP_URL is not set, kitchen notifications are disabled")
	}

	if err := dispatch.InitQueues(); err != nil {
		log.Fatalf("work queue initialization failed %v\n", err)
	}

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "cocina")
	})

	servehttp.RegisterSessionsRestAPI(engine)
	servehttp.RegisterSessionRestAPI(engine, session.SimpleAuthFilter())
	servehttp.RegisterOrderRestAPI(engine, session.SimpleAuthFilter())
	servehttp.RegisterKitchenRestAPI(engine, session.SimpleAuthFilter())

	servehttp.StartHTTPServer(engine)
}
