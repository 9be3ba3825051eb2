package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"visa_flow_app_go/config"
	"visa_flow_app_go/db"
	"visa_flow_app_go/handlers"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize the document store
	storage := db.NewStorage(cfg)
	database := db.New(storage, cfg.DocumentKey, cfg.DossierNumberStart)

	h := handlers.New(database)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Dossier routes
	e.GET("/api/dossiers", h.ListDossiers)
	e.POST("/api/dossiers", h.CreateDossier)
	e.POST("/api/dossiers/import", h.ImportDossiers)
	e.GET("/api/dossiers/:id", h.GetDossier)
	e.PUT("/api/dossiers/:id", h.UpdateDossier)
	e.DELETE("/api/dossiers/:id", h.DeleteDossier)
	e.POST("/api/dossiers/:id/children", h.CreateChildDossier)
	e.GET("/api/dossiers/:id/timeline", h.GetTimeline)
	e.GET("/api/dossiers/:id/consolidation", h.GetConsolidation)
	e.GET("/api/dossiers/:id/report", h.DownloadConsolidationReport)

	// Escrow audit trail
	e.GET("/api/escrow-history", h.GetEscrowHistory)

	// Visa reference routes
	e.GET("/api/visa-reference", h.ListVisaReference)
	e.POST("/api/visa-reference", h.AddVisaReference)
	e.PUT("/api/visa-reference/:index", h.UpdateVisaReference)
	e.DELETE("/api/visa-reference/:index", h.DeleteVisaReference)

	// Bookkeeping routes
	e.GET("/api/bookkeeping", h.ListBookkeeping)
	e.POST("/api/bookkeeping", h.AddBookkeeping)
	e.PUT("/api/bookkeeping/:index", h.UpdateBookkeeping)
	e.DELETE("/api/bookkeeping/:index", h.DeleteBookkeeping)

	log.Printf("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
