package providers

import (
	json "github.com/goccy/go-json"
	"livepoll/internal/structures"
	"net/http"
)

type Middleware func(http.Handler) http.Handler

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	// With returns a router that wraps every handler it registers with mw,
	// outermost first. Routes land in the same table.
	With(mw ...Middleware) RouterProviderInterface
	GetRoutes() []structures.Route
}

type routeTable struct {
	routes []structures.Route
}

type RouterProvider struct {
	table       *routeTable
	middlewares []Middleware
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(url, methodHandler(http.MethodGet, rp.wrap(handler)))
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(url, methodHandler(http.MethodPost, rp.wrap(handler)))
}

func (rp *RouterProvider) With(mw ...Middleware) RouterProviderInterface {
	chain := make([]Middleware, 0, len(rp.middlewares)+len(mw))
	chain = append(chain, rp.middlewares...)
	chain = append(chain, mw...)
	return &RouterProvider{table: rp.table, middlewares: chain}
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.table.routes
}

func (rp *RouterProvider) add(url string, handler http.Handler) {
	rp.table.routes = append(rp.table.routes, structures.Route{
		Url:     url,
		Handler: handler,
	})
}

func (rp *RouterProvider) wrap(handler http.Handler) http.Handler {
	for i := len(rp.middlewares) - 1; i >= 0; i-- {
		handler = rp.middlewares[i](handler)
	}
	return handler
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{table: &routeTable{}}
}

func methodHandler(method string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			WriteJSONError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "method not allowed")
			return
		}
		handler.ServeHTTP(w, r)
	})
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSONError writes the error envelope shared by every endpoint.
func WriteJSONError(w http.ResponseWriter, status int, code, message string) {
	gson, err := json.Marshal(errorBody{Error: code, Message: message})
	if err != nil {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
