package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	// Session
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware()...))

	// Edge proxy: no method prefix, every verb forwards
	s.RegisterRouteFunc(RouteAPIProxy, ChainMiddleware(s.APIProxyHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(RouteUploadsProxy, ChainMiddleware(s.UploadsProxyHandler(), s.APIMiddleware()...))

	// Presentation helpers
	s.RegisterRouteFunc("GET "+RouteSitemap, ChainMiddleware(s.SitemapHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteQuote, ChainMiddleware(s.QuoteHandler(), s.APIMiddleware()...))
}
