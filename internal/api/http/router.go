package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/crm-ticketing/internal/auth"
	"github.com/spec-kit/crm-ticketing/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Knowledgebase  *handlers.KnowledgebaseHandler
	Statistics     *handlers.StatisticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything under /api except login
// requires a valid token; admin-only routes additionally gate on role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/users/login", cfg.Users.Login)

	authed := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	admin := authed.Group("", auth.RequireRole(domain.RoleAdmin))

	admin.Get("/users", cfg.Users.ListUsers)
	admin.Post("/users", cfg.Users.CreateUser)
	admin.Get("/users/:id", cfg.Users.GetUser)
	admin.Put("/users/:id", cfg.Users.UpdateUser)
	admin.Delete("/users/:id", cfg.Users.DeleteUser)

	authed.Get("/tickets", cfg.Tickets.List)
	authed.Post("/tickets", cfg.Tickets.Create)
	authed.Put("/tickets/update-status/:id", cfg.Tickets.UpdateStatus)
	authed.Put("/tickets/update-priority/:id", cfg.Tickets.UpdatePriority)
	authed.Get("/tickets/:id", cfg.Tickets.Get)
	admin.Put("/tickets/:id", cfg.Tickets.Update)
	admin.Delete("/tickets/:id", cfg.Tickets.Delete)

	authed.Post("/comments", cfg.Comments.Create)
	authed.Get("/ticket/comments/:ticketId", cfg.Comments.ListByTicket)
	authed.Put("/comments/:id", cfg.Comments.Update)
	authed.Delete("/comments/:id", cfg.Comments.Delete)

	authed.Get("/knowledgebase", cfg.Knowledgebase.Search)
	authed.Post("/knowledgebase", cfg.Knowledgebase.CreateArticle)
	authed.Get("/knowledgebase/categories", cfg.Knowledgebase.ListCategories)
	authed.Post("/knowledgebase/categories", cfg.Knowledgebase.CreateCategory)
	admin.Delete("/knowledgebase/categories/:id", cfg.Knowledgebase.DeleteCategory)
	authed.Get("/knowledgebase/:id", cfg.Knowledgebase.GetArticle)
	authed.Put("/knowledgebase/:id", cfg.Knowledgebase.UpdateArticle)
	admin.Delete("/knowledgebase/:id", cfg.Knowledgebase.DeleteArticle)

	authed.Get("/statistics/tickets/open/count", cfg.Statistics.OpenCount)
	authed.Get("/statistics/tickets/in-progress/count", cfg.Statistics.InProgressCount)
	authed.Get("/statistics/tickets/total/count", cfg.Statistics.TotalCount)
	authed.Get("/statistics/tickets/urgent/count", cfg.Statistics.UrgentCount)
	authed.Get("/statistics/tickets/opened", cfg.Statistics.OpenedSeries)
}
