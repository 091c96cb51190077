package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"card-expense-backend/internal/config"
	handler "card-expense-backend/internal/handlers"
	"card-expense-backend/internal/repository"
	service "card-expense-backend/internal/services/ingestion"
	"card-expense-backend/internal/services/matching"
	"card-expense-backend/internal/services/statement"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	cardRepo := repository.NewCardRepository(db)
	patternRepo := repository.NewPatternRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	log := config.GetLogger()
	engine := matching.NewEngine(patternRepo, log)
	parser := statement.NewParser(statement.ColumnMap{
		CardNumber: cfg.ColCardNumber,
		Date:       cfg.ColDate,
		Merchant:   cfg.ColMerchant,
		Amount:     cfg.ColAmount,
		Industry:   cfg.ColIndustry,
	})

	ingestService := service.NewService(cardRepo, sessionRepo, transactionRepo, engine, parser, log)

	uploadHandler := handler.NewUploadHandler(ingestService, sessionRepo)
	transactionHandler := handler.NewTransactionHandler(ingestService, transactionRepo)
	cardHandler := handler.NewCardHandler(cardRepo, ingestService)
	patternHandler := handler.NewPatternHandler(patternRepo, engine)
	classifierHandler := handler.NewClassifierHandler()

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api.POST("/upload", uploadHandler.Upload)

	sessions := api.Group("/sessions")
	sessions.GET("", uploadHandler.ListSessions)
	sessions.GET("/:id", uploadHandler.GetSession)
	sessions.DELETE("/:id", uploadHandler.DeleteSession)

	tx := api.Group("/transactions")
	tx.GET("", transactionHandler.List)
	tx.POST("/:id/match", transactionHandler.ManualMatch)

	cards := api.Group("/cards")
	cards.GET("", cardHandler.List)
	cards.POST("", cardHandler.Create)
	cards.POST("/:id/rematch", cardHandler.Rematch)

	patterns := api.Group("/patterns")
	patterns.GET("", patternHandler.List)
	patterns.POST("", patternHandler.Create)
	patterns.GET("/stats", patternHandler.Stats)
	patterns.GET("/suggest", patternHandler.Suggest)
	patterns.POST("/test-match", patternHandler.TestMatch)
	patterns.GET("/:id", patternHandler.Get)
	patterns.PUT("/:id", patternHandler.Update)
	patterns.DELETE("/:id", patternHandler.Delete)

	api.GET("/classify/suggest", classifierHandler.Suggest)
}
