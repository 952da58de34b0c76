// Package api exposes the cart and checkout over HTTP for the ordering page.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	"cartflow/pkg/cart"
	"cartflow/pkg/logger"
	"cartflow/pkg/metrics"
	"cartflow/pkg/order"
	"cartflow/pkg/otel"
)

// SessionCookie names the cookie identifying a browser's cart.
const SessionCookie = "cart_session"

const sessionMaxAge = 365 * 24 * time.Hour

type sessionKey struct{}

// Handler serves the cart, status, checkout and order archive endpoints.
type Handler struct {
	kv         cart.KV
	orders     *order.Service
	repo       order.Repository
	log        *logger.Logger
	tracer     trace.Tracer
	metrics    *metrics.Metrics
	adminToken string
	now        func() time.Time
	locks      sessionLocks
}

// Option configures a Handler.
type Option func(*Handler)

// WithTracer injects tracer into every request context.
func WithTracer(t trace.Tracer) Option {
	return func(h *Handler) { h.tracer = t }
}

// WithMetrics records request counts and latency per route.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithAdminToken enables the order archive endpoints for requests
// carrying token in X-Admin-Token.
func WithAdminToken(token string) Option {
	return func(h *Handler) { h.adminToken = token }
}

// WithClock replaces time.Now for business-hours checks.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// New builds a Handler keeping carts in kv.
func New(kv cart.KV, orders *order.Service, repo order.Repository, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{kv: kv, orders: orders, repo: repo, log: log, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router returns the routes with tracing, metrics and session handling.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.traceMiddleware)
	if h.metrics != nil {
		r.Use(h.metricsMiddleware)
	}

	c := r.NewRoute().Subrouter()
	c.Use(h.sessionMiddleware)
	c.HandleFunc("/cart", h.getCart).Methods(http.MethodGet)
	c.HandleFunc("/cart", h.clearCart).Methods(http.MethodDelete)
	c.HandleFunc("/cart/items", h.addItem).Methods(http.MethodPost)
	c.HandleFunc("/cart/items/{index:[0-9]+}/increase", h.increaseAt).Methods(http.MethodPost)
	c.HandleFunc("/cart/items/{index:[0-9]+}/decrease", h.decreaseAt).Methods(http.MethodPost)
	c.HandleFunc("/cart/products/{name}/increase", h.increaseNamed).Methods(http.MethodPost)
	c.HandleFunc("/cart/products/{name}/decrease", h.decreaseNamed).Methods(http.MethodPost)
	c.HandleFunc("/checkout", h.checkout).Methods(http.MethodPost)

	r.HandleFunc("/status", h.status).Methods(http.MethodGet)

	admin := r.PathPrefix("/orders").Subrouter()
	admin.Use(h.adminMiddleware)
	admin.HandleFunc("", h.listOrders).Methods(http.MethodGet)
	admin.HandleFunc("/{id}", h.getOrder).Methods(http.MethodGet)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

// openCart locks the request's session and restores its cart. The caller
// must call unlock once it is done with the store.
func (h *Handler) openCart(ctx context.Context) (store *cart.Store, unlock func()) {
	sid, _ := ctx.Value(sessionKey{}).(string)
	unlock = h.locks.lock(sid)
	p := cart.NewPersistence(h.kv, cart.SessionKey(sid), h.log)
	return cart.Open(ctx, p, h.log), unlock
}

// sessionMiddleware issues a session cookie to browsers without one.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if c, err := r.Cookie(SessionCookie); err == nil {
			if _, perr := uuid.Parse(c.Value); perr == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				Expires:  h.now().Add(sessionMaxAge),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminMiddleware requires the configured admin token. Without a token
// the archive stays closed.
func (h *Handler) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-Admin-Token")
		if h.adminToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.adminToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized", "admin token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if h.tracer != nil {
			ctx = otel.InjectTracing(ctx, h.tracer)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				name = tpl
			}
		}
		h.metrics.Instrument(name, next).ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error          string `json:"error"`
	Message        string `json:"message,omitempty"`
	Alert          bool   `json:"alert,omitempty"`
	AddressWarning bool   `json:"addressWarning,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}
