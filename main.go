package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"ragagent/config"
	"ragagent/controller"
	"ragagent/services"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// allowedOrigins is the CORS allowlist: the two local frontend dev servers.
var allowedOrigins = map[string]bool{
	"http://localhost:5173": true,
	"http://localhost:3000": true,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	if cfg.UnidocLicenseKey != "" {
		if err := services.InitPDFLicense(cfg.UnidocLicenseKey); err != nil {
			log.Printf("WARN: %v. PDF extraction will fail.", err)
		}
	} else {
		log.Println("WARN: UNIDOC_LICENSE_KEY not set. PDF extraction will fail.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := buildVectorStore(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to create vector store: %v", err)
	}
	defer closeStore()

	generator, err := buildGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to create generation backend: %v", err)
	}

	embedClient := &http.Client{Timeout: 30 * time.Second}
	embedder := services.NewOllamaEmbedder(embedClient, cfg.OllamaBaseURL, cfg.OllamaEmbeddingModel)

	ragService := services.NewRAGService(ctx, store, embedder, generator, cfg.ChunkSize, cfg.ChunkOverlap, cfg.OllamaEmbeddingModel)

	docStore, err := services.NewDocumentStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	ragController := controller.NewRAGController(ragService, docStore, cfg.MaxFileSize)

	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/", ragController.Root)
	router.GET("/health", ragController.HealthCheck)
	router.POST("/upload", ragController.UploadDocument)
	router.POST("/query", ragController.QueryDocuments)
	router.POST("/chat", ragController.ChatWithContext)
	router.GET("/documents", ragController.ListDocuments)
	router.DELETE("/documents/:filename", ragController.DeleteDocument)
	router.DELETE("/clear", ragController.ClearAllDocuments)
	router.GET("/stats", ragController.GetStats)

	if cfg.WatchUploadDir {
		watcher := services.NewWatcherService(ragService)
		go watcher.WatchDirectory(ctx, docStore.Dir())
	}

	log.Printf("RAG agent server starting on http://%s", cfg.Addr())
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}

// buildVectorStore selects the storage backend at construction time.
func buildVectorStore(cfg *config.Settings) (services.VectorStore, func(), error) {
	switch cfg.VectorBackend {
	case "memory":
		log.Println("Using in-memory vector store.")
		return services.NewMemoryStore(), func() {}, nil
	default:
		chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.ChromaURL))
		if err != nil {
			return nil, nil, err
		}
		store, err := services.NewChromaStore(chromaClient, cfg.CollectionName)
		if err != nil {
			chromaClient.Close()
			return nil, nil, err
		}
		log.Printf("Connected to ChromaDB at %s (collection %s).", cfg.ChromaURL, cfg.CollectionName)
		closeFn := func() {
			if err := chromaClient.Close(); err != nil {
				log.Printf("Warning: Failed to close chroma client: %v", err)
			}
		}
		return store, closeFn, nil
	}
}

// buildGenerator selects the generation backend at construction time.
func buildGenerator(ctx context.Context, cfg *config.Settings) (services.Generator, error) {
	switch cfg.LLMBackend {
	case "gemini":
		log.Printf("Using Gemini generation backend (%s).", cfg.GeminiModel)
		return services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		log.Printf("Using Ollama generation backend (%s).", cfg.OllamaModel)
		// Generous fixed timeout; generation on local models is slow.
		genClient := &http.Client{Timeout: 120 * time.Second}
		return services.NewOllamaGenerator(genClient, cfg.OllamaBaseURL, cfg.OllamaModel)
	}
}

// corsMiddleware restricts cross-origin access to the allowlisted frontend
// dev servers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowedOrigins[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
