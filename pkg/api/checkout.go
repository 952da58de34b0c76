package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"cartflow/pkg/order"
	"cartflow/pkg/otel"
)

// StatusView reports whether orders are being taken.
type StatusView struct {
	Open          bool   `json:"open"`
	OpeningHour   int    `json:"openingHour"`
	ClosingHour   int    `json:"closingHour"`
	ClosedWeekday string `json:"closedWeekday"`
	Message       string `json:"message,omitempty"`
}

// CheckoutResponse is returned once an order reached the merchant.
type CheckoutResponse struct {
	OrderID        string `json:"orderId"`
	Link           string `json:"link"`
	Message        string `json:"message"`
	AddressWarning bool   `json:"addressWarning"`
}

const missingNameMessage = "Por favor, insira seu nome."

// status reports the business-hours state.
// @Summary Opening status
// @Produce json
// @Success 200 {object} api.StatusView
// @Router /status [get]
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "status")
	defer span.End()

	p := h.orders.Composer().Hours
	v := StatusView{
		Open:          p.IsOpen(h.now()),
		OpeningHour:   p.OpeningHour,
		ClosingHour:   p.ClosingHour,
		ClosedWeekday: p.ClosedWeekday.String(),
	}
	if !v.Open {
		v.Message = p.ClosedMessage()
	}
	writeJSON(w, http.StatusOK, v)
}

// checkout places the session's cart as an order.
// @Summary Checkout
// @Accept json
// @Produce json
// @Param details body order.Details true "Customer details"
// @Success 201 {object} api.CheckoutResponse
// @Failure 400 {object} api.errorResponse
// @Failure 409 {object} api.errorResponse
// @Failure 422 {object} api.errorResponse
// @Router /checkout [post]
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "checkout")
	defer span.End()

	var d order.Details
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	store, unlock := h.openCart(ctx)
	defer unlock()
	o, err := h.orders.Place(ctx, store, d, h.now())
	switch {
	case errors.Is(err, order.ErrMissingName):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing_name", Message: missingNameMessage, Alert: true})
		return
	case errors.Is(err, order.ErrMissingAddress):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "missing_address", Message: err.Error(), AddressWarning: true})
		return
	case errors.Is(err, order.ErrClosedForOrders):
		writeError(w, http.StatusConflict, "closed_for_orders", h.orders.Composer().Hours.ClosedMessage())
		return
	case err != nil:
		h.log.Error(ctx, "checkout", "error", err)
		writeError(w, http.StatusBadGateway, "send_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, CheckoutResponse{OrderID: o.ID, Link: o.Link, Message: o.Message})
}

// listOrders lists placed orders.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Order
// @Security AdminToken
// @Router /orders [get]
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrders")
	defer span.End()

	orders, err := h.repo.List(ctx)
	if err != nil {
		h.log.Error(ctx, "list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// getOrder retrieves a placed order by ID.
// @Summary Get order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} order.Order
// @Security AdminToken
// @Router /orders/{id} [get]
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrder")
	defer span.End()

	id := mux.Vars(r)["id"]
	o, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order_not_found", err.Error())
			return
		}
		h.log.Error(ctx, "get order", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o)
}
