// Package httpapi is the public REST surface of the storefront: catalog and quotes for
// visitors, order submission and tracking, and client accounts.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fekuna/amigurumi-order-service/internal/auth"
	"github.com/fekuna/amigurumi-order-service/internal/client"
	"github.com/fekuna/amigurumi-order-service/internal/formschema"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/order"
	"github.com/fekuna/amigurumi-order-service/pkg/i18n"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
	"github.com/fekuna/amigurumi-order-service/pkg/middleware"
)

type CatalogReader interface {
	ListItems(ctx context.Context, category model.ItemCategory) ([]model.InventoryItem, error)
}

type Authenticator interface {
	auth.SessionResolver
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context, token string) error
}

type Handler struct {
	catalog CatalogReader
	orders  order.UseCase
	clients client.UseCase
	auth    Authenticator
	schemas *formschema.Registry
	tr      *i18n.Translator
	logger  logger.ZapLogger
}

func NewHandler(
	catalog CatalogReader,
	orders order.UseCase,
	clients client.UseCase,
	authenticator Authenticator,
	schemas *formschema.Registry,
	tr *i18n.Translator,
	log logger.ZapLogger,
) *Handler {
	return &Handler{
		catalog: catalog,
		orders:  orders,
		clients: clients,
		auth:    authenticator,
		schemas: schemas,
		tr:      tr,
		logger:  log,
	}
}

// Router mounts every route behind the request logger and the session middleware.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog", h.listCatalog).Methods(http.MethodGet)
	api.HandleFunc("/form-schema", h.formSchema).Methods(http.MethodGet)
	api.HandleFunc("/quotes", h.quote).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.createOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{code}", h.trackOrder).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
	api.HandleFunc("/me/orders", h.myOrders).Methods(http.MethodGet)

	r.Use(middleware.LogRequests(h.logger), auth.HTTPMiddleware(h.auth))
	return r
}
