package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rh "github.com/Linux-Alex/GraphLink/route-handlers"
	"github.com/Linux-Alex/GraphLink/webutil"
)

const (
	apiBasePath    = "/api"
	emailsBasePath = "/emails"
	healthPath     = "/healthz"
	docsBasePath   = "/swagger"
	docsSpecPath   = docsBasePath + "/v1/swagger.json"

	defaultRequestTimeout = 60 * time.Second
)

// Paths served without an API key.
var publicPathPrefixes = []string{
	docsBasePath,
	"/favicon.ico",
	"/index.html",
	healthPath,
}

// Options configures the router.
type Options struct {
	APIKey         string
	APIKeyHeader   string        // Defaults to webutil.HeaderAPIKey.
	RequestTimeout time.Duration // Defaults to 60s.
}

func SetupRoutes(emailHandler *rh.EmailHandler, opts Options) http.Handler {
	if opts.APIKeyHeader == "" {
		opts.APIKeyHeader = webutil.HeaderAPIKey
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Log every request
	r.Use(middleware.Recoverer) // Recover from panics
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(SetHeader(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8)) // Default Content-Type
	r.Use(RequireAPIKey(opts.APIKeyHeader, opts.APIKey, publicPathPrefixes...))

	r.NotFound(webutil.MakeHandler(func(w http.ResponseWriter, r *http.Request) error {
		return webutil.ErrNotFound("")
	}))
	r.MethodNotAllowed(webutil.MakeHandler(func(w http.ResponseWriter, r *http.Request) error {
		return webutil.ErrMethodNotAllowed("")
	}))

	r.Route(apiBasePath, func(r chi.Router) {
		configureEmailRoutes(r, emailHandler)
	})

	r.Get(healthPath, handleHealthCheck)
	r.Get(docsSpecPath, handleOpenAPISpec)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- Email Routes ---
func configureEmailRoutes(r chi.Router, handler *rh.EmailHandler) {
	mailboxPath := pathWithParam("", rh.ParamSenderEmail) // e.g., "/{senderEmail}"

	r.Route(emailsBasePath, func(r chi.Router) {
		r.Get(mailboxPath, webutil.MakeHandler(handler.HandleGetEmails))  // GET /api/emails/{senderEmail}
		r.Post(mailboxPath, webutil.MakeHandler(handler.HandleSendEmail)) // POST /api/emails/{senderEmail}
	})
}

// --- Utility Functions ---

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
