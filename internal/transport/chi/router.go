package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// SearchProducts handles POST /api/v1/products/search.
	SearchProducts(w http.ResponseWriter, r *http.Request)
	// SearchProductsByQuery handles GET /api/v1/products/search.
	SearchProductsByQuery(w http.ResponseWriter, r *http.Request, params SearchProductsByQueryParams)
	// SuggestProducts handles GET /api/v1/products/suggest.
	SuggestProducts(w http.ResponseWriter, r *http.Request, params SuggestProductsParams)
	// HealthCheck handles GET /health.
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Metrics handles GET /metrics.
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a query parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// RequiredParamError reports a missing required query parameter.
type RequiredParamError struct {
	ParamName string
}

func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("query argument %s is required, but not found", e.ParamName)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// serverInterfaceWrapper binds request parameters before calling the handler.
type serverInterfaceWrapper struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

type queryBinding struct {
	name     string
	required bool
	dest     any
}

func (siw *serverInterfaceWrapper) bind(w http.ResponseWriter, r *http.Request, bindings []queryBinding) bool {
	q := r.URL.Query()
	for _, b := range bindings {
		if b.required && !q.Has(b.name) {
			siw.errorHandlerFunc(w, r, &RequiredParamError{ParamName: b.name})
			return false
		}
		if err := runtime.BindQueryParameter("form", true, b.required, b.name, q, b.dest); err != nil {
			siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: b.name, Err: err})
			return false
		}
	}
	return true
}

func (siw *serverInterfaceWrapper) SearchProducts(w http.ResponseWriter, r *http.Request) {
	siw.handler.SearchProducts(w, r)
}

func (siw *serverInterfaceWrapper) SearchProductsByQuery(w http.ResponseWriter, r *http.Request) {
	var params SearchProductsByQueryParams
	ok := siw.bind(w, r, []queryBinding{
		{name: "q", dest: &params.Q},
		{name: "page", dest: &params.Page},
		{name: "size", dest: &params.Size},
		{name: "sortBy", dest: &params.SortBy},
		{name: "sortDirection", dest: &params.SortDirection},
		{name: "searchMode", dest: &params.SearchMode},
		{name: "categoryIds", dest: &params.CategoryIds},
		{name: "manufacturerIds", dest: &params.ManufacturerIds},
		{name: "minPrice", dest: &params.MinPrice},
		{name: "maxPrice", dest: &params.MaxPrice},
		{name: "language", dest: &params.Language},
		{name: "facetedSearch", dest: &params.FacetedSearch},
		{name: "statuses", dest: &params.Statuses},
	})
	if !ok {
		return
	}
	siw.handler.SearchProductsByQuery(w, r, params)
}

func (siw *serverInterfaceWrapper) SuggestProducts(w http.ResponseWriter, r *http.Request) {
	var params SuggestProductsParams
	ok := siw.bind(w, r, []queryBinding{
		{name: "q", required: true, dest: &params.Q},
		{name: "language", dest: &params.Language},
		{name: "limit", dest: &params.Limit},
	})
	if !ok {
		return
	}
	siw.handler.SuggestProducts(w, r, params)
}

// HandlerWithOptions registers every route of si on the base router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	errorHandler := options.ErrorHandlerFunc
	if errorHandler == nil {
		errorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := &serverInterfaceWrapper{handler: si, errorHandlerFunc: errorHandler}

	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/v1/products/search", wrapper.SearchProducts)
		r.Get(options.BaseURL+"/api/v1/products/search", wrapper.SearchProductsByQuery)
		r.Get(options.BaseURL+"/api/v1/products/suggest", wrapper.SuggestProducts)
		r.Get(options.BaseURL+"/health", si.HealthCheck)
		r.Get(options.BaseURL+"/metrics", si.Metrics)
	})
	return r
}

// BadRequestHandler writes binding errors as a JSON 400.
func BadRequestHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
}
