package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"cartflow/pkg/cart"
	"cartflow/pkg/money"
	"cartflow/pkg/otel"
)

// EntryView is one cart row as rendered by the page.
type EntryView struct {
	Index             int             `json:"index"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	PriceFormatted    string          `json:"priceFormatted"`
	Quantity          int             `json:"quantity"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	SubtotalFormatted string          `json:"subtotalFormatted"`
}

// CartView is the cart summary returned by every cart endpoint.
type CartView struct {
	Entries        []EntryView     `json:"entries"`
	Total          decimal.Decimal `json:"total"`
	TotalFormatted string          `json:"totalFormatted"`
	Count          int             `json:"count"`
}

func newCartView(c cart.Cart) CartView {
	v := CartView{
		Entries:        make([]EntryView, 0, len(c.Entries)),
		Total:          c.Total,
		TotalFormatted: money.Format(c.Total),
		Count:          c.Count(),
	}
	for i, e := range c.Entries {
		v.Entries = append(v.Entries, EntryView{
			Index:             i,
			Name:              e.Name,
			Price:             e.UnitPrice,
			PriceFormatted:    money.Format(e.UnitPrice),
			Quantity:          e.Quantity,
			Subtotal:          e.Subtotal(),
			SubtotalFormatted: money.Format(e.Subtotal()),
		})
	}
	return v
}

// addItemRequest carries either a numeric price or the price text shown
// on the menu card.
type addItemRequest struct {
	Name      string           `json:"name"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	PriceText string           `json:"priceText,omitempty"`
}

// getCart returns the session's cart.
// @Summary Get cart
// @Produce json
// @Success 200 {object} api.CartView
// @Router /cart [get]
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCart")
	defer span.End()

	store, unlock := h.openCart(ctx)
	defer unlock()
	writeJSON(w, http.StatusOK, newCartView(store.Snapshot()))
}

// addItem adds one unit of a menu item.
// @Summary Add item
// @Accept json
// @Produce json
// @Param item body api.addItemRequest true "Menu item"
// @Success 200 {object} api.CartView
// @Failure 400 {object} api.errorResponse
// @Router /cart/items [post]
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addItem")
	defer span.End()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_item_name", "item name is required")
		return
	}
	var price decimal.Decimal
	switch {
	case req.Price != nil:
		price = *req.Price
	case req.PriceText != "":
		p, err := money.ParseMenuPrice(req.PriceText)
		if err != nil {
			h.log.Warn(ctx, "parse menu price", "item", name, "price_text", req.PriceText, "error", err)
			writeError(w, http.StatusBadRequest, "invalid_price", "could not read price "+strconv.Quote(req.PriceText))
			return
		}
		price = p
	default:
		writeError(w, http.StatusBadRequest, "missing_price", "price or priceText is required")
		return
	}
	if price.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}
	span.SetAttributes(attribute.String("cart.item", name))

	store, unlock := h.openCart(ctx)
	defer unlock()
	store.AddItem(ctx, name, price)
	writeJSON(w, http.StatusOK, newCartView(store.Snapshot()))
}

// increaseAt adds one unit to the row at index.
// @Summary Increase quantity by row
// @Produce json
// @Param index path int true "Row index"
// @Success 200 {object} api.CartView
// @Failure 404 {object} api.errorResponse
// @Router /cart/items/{index}/increase [post]
func (h *Handler) increaseAt(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "increaseQuantity")
	defer span.End()

	index, _ := strconv.Atoi(mux.Vars(r)["index"])
	store, unlock := h.openCart(ctx)
	defer unlock()
	h.writeMutation(w, store, store.IncreaseQuantity(ctx, index))
}

// decreaseAt removes one unit from the row at index.
// @Summary Decrease quantity by row
// @Produce json
// @Param index path int true "Row index"
// @Success 200 {object} api.CartView
// @Failure 404 {object} api.errorResponse
// @Router /cart/items/{index}/decrease [post]
func (h *Handler) decreaseAt(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "decreaseQuantity")
	defer span.End()

	index, _ := strconv.Atoi(mux.Vars(r)["index"])
	store, unlock := h.openCart(ctx)
	defer unlock()
	h.writeMutation(w, store, store.DecreaseQuantity(ctx, index))
}

// increaseNamed adds one unit of the named product.
// @Summary Increase quantity by product
// @Produce json
// @Param name path string true "Product name"
// @Success 200 {object} api.CartView
// @Failure 404 {object} api.errorResponse
// @Router /cart/products/{name}/increase [post]
func (h *Handler) increaseNamed(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "increaseItem")
	defer span.End()

	store, unlock := h.openCart(ctx)
	defer unlock()
	h.writeMutation(w, store, store.IncreaseItem(ctx, mux.Vars(r)["name"]))
}

// decreaseNamed removes one unit of the named product.
// @Summary Decrease quantity by product
// @Produce json
// @Param name path string true "Product name"
// @Success 200 {object} api.CartView
// @Failure 404 {object} api.errorResponse
// @Router /cart/products/{name}/decrease [post]
func (h *Handler) decreaseNamed(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "decreaseItem")
	defer span.End()

	store, unlock := h.openCart(ctx)
	defer unlock()
	h.writeMutation(w, store, store.DecreaseItem(ctx, mux.Vars(r)["name"]))
}

// clearCart empties the session's cart.
// @Summary Clear cart
// @Produce json
// @Success 200 {object} api.CartView
// @Router /cart [delete]
func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearCart")
	defer span.End()

	store, unlock := h.openCart(ctx)
	defer unlock()
	store.Clear(ctx)
	writeJSON(w, http.StatusOK, newCartView(store.Snapshot()))
}

func (h *Handler) writeMutation(w http.ResponseWriter, store *cart.Store, err error) {
	switch {
	case errors.Is(err, cart.ErrIndexOutOfRange):
		writeError(w, http.StatusNotFound, "index_out_of_range", err.Error())
	case errors.Is(err, cart.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "entry_not_found", err.Error())
	default:
		writeJSON(w, http.StatusOK, newCartView(store.Snapshot()))
	}
}
