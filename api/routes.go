package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public site, the authenticated dashboards, and the
// admin-only management surface.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/auth/signup", handlers.authHandler.signup())
		r.Post("/auth/login", handlers.authHandler.login())

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())

		r.Get("/achievements", handlers.achievementHandler.getAllAchievements())
		r.Get("/achievement/{achievementID}", handlers.achievementHandler.getAchievement())

		r.Get("/profiles", handlers.profileHandler.getAllProfiles())
		r.Get("/profile/{profileID}", handlers.profileHandler.getProfile())

		r.Get("/site-stats", handlers.siteStatHandler.getAllSiteStats())
	})

	// The privileged deletion endpoint performs its own header checks and
	// carries its own CORS contract, so it sits outside the auth groups.
	r.HandleFunc("/functions/delete-user", handlers.deleteUserHandler.deleteUser())

	// Authenticated routes (member dashboard)
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Get("/auth/me", handlers.authHandler.me())

		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		r.Post("/achievement", handlers.achievementHandler.createAchievement())
		r.Put("/achievement/{achievementID}", handlers.achievementHandler.updateAchievement())
		r.Delete("/achievement/{achievementID}", handlers.achievementHandler.deleteAchievement())

		r.Put("/profile/{profileID}", handlers.profileHandler.updateProfile())

		r.Post("/upload", handlers.uploadHandler.upload())
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)
		r.Use(authMiddleware.requireAdmin)

		r.Get("/profiles/with-roles", handlers.profileHandler.getAllProfilesWithRoles())
		r.Put("/user-role/{userID}", handlers.profileHandler.setUserRole())

		r.Post("/site-stat", handlers.siteStatHandler.createSiteStat())
		r.Put("/site-stat/{siteStatID}", handlers.siteStatHandler.updateSiteStat())
		r.Delete("/site-stat/{siteStatID}", handlers.siteStatHandler.deleteSiteStat())
	})
}
