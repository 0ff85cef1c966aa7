package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"noticeflow/internal/config"
	"noticeflow/internal/core/analysis"
	"noticeflow/internal/core/chat"
	db "noticeflow/internal/core/database"
	"noticeflow/internal/core/extractor"
	"noticeflow/internal/core/llm"
	"noticeflow/internal/core/notify"
	"noticeflow/internal/core/pipeline"
	"noticeflow/internal/services"
)

// App owns the process-wide clients and the HTTP server. Clients are
// constructed once at startup and injected into every component that needs
// them.
type App struct {
	Store      *db.MongoStore
	LLM        *llm.GeminiLLM
	Dispatcher *notify.Dispatcher
	Server     *Server
}

func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	startCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	store, err := db.NewMongoStore(startCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("mongo store initialized")

	llmProvider, err := llm.NewGeminiLLM(startCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		_ = store.Close(startCtx)
		return nil, err
	}
	log.Info().Str("model", cfg.GenModel).Msg("gemini client initialized")

	sender, err := notify.NewSMTPSender(cfg)
	if err != nil {
		_ = store.Close(startCtx)
		_ = llmProvider.Close()
		return nil, err
	}

	dispatcher := notify.NewDispatcher(sender, cfg.MailRatePerSec, log)
	dispatcher.Start(ctx, cfg.MailWorkers)

	docExtractor := extractor.NewDocconvExtractor(false)
	analyzer := analysis.NewAnalyzer(llmProvider)
	ingestion := pipeline.NewPipeline(store, docExtractor, analyzer, dispatcher, log)
	chatEngine := chat.NewEngine(store, llmProvider, cfg.ChatContextChars)
	docService := services.NewDocumentService(store)

	server := NewServer(cfg, ingestion, chatEngine, docService, store, log)

	return &App{Store: store, LLM: llmProvider, Dispatcher: dispatcher, Server: server}, nil
}

func (a *App) Close(ctx context.Context) {
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
	if a.Store != nil {
		_ = a.Store.Close(ctx)
	}
}
