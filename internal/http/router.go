package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docuchat/internal/crawler"
	"docuchat/internal/handlers"
	"docuchat/internal/jobs"
	"docuchat/internal/snapshot"
	"docuchat/internal/store"
	"docuchat/internal/uploads"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Conversations store.ConversationStore
	Messages      store.MessageStore
	Files         store.FileStore
	Hyperlinks    store.HyperlinkStore
	Temporary     store.TemporaryStore
	Migrator      *snapshot.Migrator
	Binaries      *uploads.Store
	Submitter     jobs.Submitter
	Tickets       snapshot.TicketRegistrar
	Crawler       *crawler.Crawler
	Indexes       handlers.IndexRemover
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	conversationHandler := handlers.NewConversationHandler(deps.Conversations, deps.Messages, deps.Files, deps.Hyperlinks, deps.Migrator, deps.Binaries, deps.Indexes)
	messageHandler := handlers.NewMessageHandler(deps.Messages)
	fileHandler := handlers.NewFileHandler(deps.Files, deps.Binaries, deps.Indexes)
	hyperlinkHandler := handlers.NewHyperlinkHandler(deps.Hyperlinks)
	temporaryHandler := handlers.NewTemporaryHandler(deps.Temporary, deps.Binaries)
	jobHandler := handlers.NewJobHandler(deps.Submitter, deps.Tickets)
	uploadHandler := handlers.NewUploadHandler(deps.Binaries, deps.Temporary)
	crawlerHandler := handlers.NewCrawlerHandler(deps.Crawler)
	exportHandler := handlers.NewExportHandler(deps.Conversations, deps.Messages)

	r.Route("/api", func(r chi.Router) {
		r.Route("/chat-history", func(r chi.Router) {
			r.Post("/", conversationHandler.Create)
			r.Get("/", conversationHandler.List)

			r.Route("/{conversationId}", func(r chi.Router) {
				r.Post("/", messageHandler.Append)
				r.Get("/", messageHandler.List)
				r.Delete("/", conversationHandler.Delete)
				r.Get("/export", exportHandler.Export)

				r.Route("/files", func(r chi.Router) {
					r.Post("/bulk", fileHandler.BulkAppend)
					r.Get("/bulk", fileHandler.List)
					r.Delete("/bulk", fileHandler.BulkDelete)
					r.Delete("/{fileId}", fileHandler.Delete)
				})

				r.Route("/hyperlinks", func(r chi.Router) {
					r.Post("/", hyperlinkHandler.Append)
					r.Get("/", hyperlinkHandler.List)
					r.Delete("/{hyperlinkId}", hyperlinkHandler.Delete)
				})
			})
		})

		r.Patch("/conversations/{conversationId}", conversationHandler.Rename)

		r.Route("/temporary", func(r chi.Router) {
			r.Post("/docs", temporaryHandler.AppendDoc)
			r.Get("/docs", temporaryHandler.ListDocs)
			r.Delete("/docs/{docId}", temporaryHandler.DeleteDoc)
			r.Post("/hyperlinks", temporaryHandler.AppendHyperlink)
			r.Get("/hyperlinks", temporaryHandler.ListHyperlinks)
			r.Delete("/hyperlinks/{hyperlinkId}", temporaryHandler.DeleteHyperlink)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/index", jobHandler.SubmitIndex)
			r.Post("/prompt", jobHandler.SubmitPrompt)
			r.Get("/{jobId}", jobHandler.Status)
		})

		r.Post("/uploads", uploadHandler.Save)
		r.Get("/crawler", crawlerHandler.Title)
	})

	r.Get("/uploads/{docId}.pdf", uploadHandler.Serve)
	r.Get("/healthz", handlers.Health)

	return r
}
