package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHealth = "/health"

	// Session Routes
	RouteAuthLogin    = "/auth/login"
	RouteAuthRegister = "/auth/register"
	RouteAuthLogout   = "/auth/logout"
	RouteAuthRefresh  = "/auth/refresh"
	RouteAuthMe       = "/auth/me"

	// Edge Proxy Routes (patterns, any method)
	RouteAPIProxy     = "/api/proxy/{path...}"
	RouteUploadsProxy = "/api/uploads/{path...}"

	// Presentation helpers
	RouteSitemap = "/sitemap.xml"
	RouteQuote   = "/api/quote"
)
