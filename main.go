package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/mlachapelle/ocr-invoice-extraction/alias"
	"github.com/mlachapelle/ocr-invoice-extraction/client"
	"github.com/mlachapelle/ocr-invoice-extraction/config"
	"github.com/mlachapelle/ocr-invoice-extraction/handler"
	"github.com/mlachapelle/ocr-invoice-extraction/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize OCR and barcode clients
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()
	barcodeClient := client.NewBarcodeClient()

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Load alias configuration and build the resolver
	aliasConfig := alias.LoadConfig(cfg.AliasConfigPath)
	resolver := alias.NewResolver(aliasConfig)
	log.Printf("Alias configuration loaded from %s (%d official names)", cfg.AliasConfigPath, len(aliasConfig.OfficialNames))

	// Initialize service layer
	invoiceService := service.NewInvoiceService(tesseractClient, barcodeClient, pdfProcessor, resolver)

	// Initialize handler layer
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, cfg.MaxFileSize)
	aliasHandler := handler.NewAliasHandler(resolver, cfg.AliasConfigPath)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "OCR Invoice Extraction",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		invoice := api.Group("/invoice")
		{
			invoice.POST("/parse", invoiceHandler.ParseDocument)
			invoice.POST("/parse-text", invoiceHandler.ParseText)
		}
		aliases := api.Group("/aliases")
		{
			aliases.POST("/resolve", aliasHandler.Resolve)
			aliases.POST("/reload", aliasHandler.Reload)
		}
	}

	// Start server
	log.Printf("Starting OCR Invoice Extraction Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
