package api

import (
	_ "embed"
	"net/http"

	"github.com/Linux-Alex/GraphLink/webutil"
)

//go:embed openapi.json
var openAPISpec []byte

func handleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}
