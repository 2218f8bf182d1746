package server

import (
	"io"
	"net/http"
	"net/textproto"
)

// hopByHopHeaders must not cross a proxy leg, in either direction.
var hopByHopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

func isHopByHop(name string) bool {
	_, ok := hopByHopHeaders[textproto.CanonicalMIMEHeaderKey(name)]
	return ok
}

// copyEndToEndHeaders copies every header except the hop-by-hop set. Host
// is carried on http.Request.Host, not in the header map, so the upstream
// host is set by the client automatically.
func copyEndToEndHeaders(dst, src http.Header) {
	for name, values := range src {
		if isHopByHop(name) {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

// APIProxyHandler relays ANY /api/proxy/{path...} to
// {BACKEND_ORIGIN}/api/{path}, preserving the inbound query string,
// method, end-to-end headers and body, and relays the backend's status,
// headers and body back verbatim. Backend 4xx/5xx are relayed as-is; only
// a transport failure becomes a 502.
func (s *Server) APIProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := s.backendURL("/api/"+r.PathValue("path"), r.URL.RawQuery)

		var body io.Reader
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			body = r.Body
		}

		req, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		copyEndToEndHeaders(req.Header, r.Header)

		resp, err := s.proxyClient.Do(req)
		if err != nil {
			s.log.Warn().Err(err).Str("target", target).Msg("backend unreachable")
			writeGatewayError(w, err)
			return
		}
		defer resp.Body.Close()

		copyEndToEndHeaders(w.Header(), resp.Header)
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			// Headers are gone already, nothing to send the client.
			s.log.Warn().Err(err).Str("target", target).Msg("relay interrupted mid-body")
		}
	}
}
