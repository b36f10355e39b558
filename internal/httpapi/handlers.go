package httpapi

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fekuna/amigurumi-order-service/internal/auth"
	clientdto "github.com/fekuna/amigurumi-order-service/internal/client/dto"
	"github.com/fekuna/amigurumi-order-service/internal/formschema"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/order"
	orderdto "github.com/fekuna/amigurumi-order-service/internal/order/dto"
	"github.com/fekuna/amigurumi-order-service/internal/pricing"
)

type quoteRequest struct {
	Selection     pricing.Selection   `json:"selection"`
	PaymentChoice model.PaymentChoice `json:"payment_choice" validate:"omitempty,oneof=full partial"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type trackResponse struct {
	Order     *model.Order               `json:"order"`
	Requester *orderdto.RequesterContext `json:"requester"`
}

type myOrdersResponse struct {
	Client    *model.Client    `json:"client,omitempty"`
	Orders    []model.Order    `json:"orders"`
	Referrals []model.Referral `json:"referrals"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	category := model.ItemCategory(r.URL.Query().Get("category"))
	items, err := h.catalog.ListItems(r.Context(), category)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) formSchema(w http.ResponseWriter, r *http.Request) {
	productType := r.URL.Query().Get("product_type")
	if productType == "" {
		productType = formschema.DefaultProductType
	}
	s, err := h.schemas.Get(productType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := bind(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	q, err := h.orders.Quote(r.Context(), req.Selection, req.PaymentChoice)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var input orderdto.CreateOrderInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}
	if sess := auth.SessionFrom(r.Context()); sess != nil && strings.TrimSpace(input.ClientEmail) == "" {
		input.ClientEmail = sess.Email
	}

	res, err := h.orders.CreateOrder(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) trackOrder(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	o, err := h.orders.FindByTrackingCode(r.Context(), code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if o == nil {
		h.writeError(w, r, order.ErrOrderNotFound)
		return
	}

	rc, err := h.orders.ResolveRequesterContext(r.Context(), o)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trackResponse{Order: o, Requester: rc})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var input clientdto.RegisterInput
	if err := bind(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.clients.Register(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := bind(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	sess, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.RequireSession(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.auth.SignOut(r.Context(), sess.Token); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.RequireSession(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	orders, err := h.orders.FindByClientEmail(r.Context(), sess.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := myOrdersResponse{Orders: orders, Referrals: []model.Referral{}}

	c, err := h.clients.FindByEmail(r.Context(), sess.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if c != nil {
		resp.Client = c
		refs, err := h.clients.ListReferrals(r.Context(), c.ID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if refs != nil {
			resp.Referrals = refs
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
