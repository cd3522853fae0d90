// Package gateway is the HTTP surface of the POS: manual code entry, cart
// listing, scanner toggle and the product creation form all land here.
package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	cartapp "github.com/nicolasrigourd/pos-mobile/internal/cart/app"
	cartdomain "github.com/nicolasrigourd/pos-mobile/internal/cart/domain"
	catalogapp "github.com/nicolasrigourd/pos-mobile/internal/catalog/app"
	checkoutapp "github.com/nicolasrigourd/pos-mobile/internal/checkout/app"
	creationapp "github.com/nicolasrigourd/pos-mobile/internal/creation/app"
	creationdomain "github.com/nicolasrigourd/pos-mobile/internal/creation/domain"
	scanapp "github.com/nicolasrigourd/pos-mobile/internal/scan/app"
	scandomain "github.com/nicolasrigourd/pos-mobile/internal/scan/domain"
)

type Server struct {
	cart     *cartapp.Service
	catalog  *catalogapp.Service
	creation *creationapp.Service
	quote    *checkoutapp.Service
	scanner  *scanapp.Controller
	log      *slog.Logger
}

func NewServer(
	cart *cartapp.Service,
	catalog *catalogapp.Service,
	creation *creationapp.Service,
	quote *checkoutapp.Service,
	scanner *scanapp.Controller,
	log *slog.Logger,
) *Server {
	return &Server{
		cart:     cart,
		catalog:  catalog,
		creation: creation,
		quote:    quote,
		scanner:  scanner,
		log:      log,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }).Methods("GET")
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }).Methods("GET")

	r.HandleFunc("/api/cart", s.handleGetCart).Methods("GET")
	r.HandleFunc("/api/cart/items", s.handleAddItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{code}", s.handleRemoveItem).Methods("DELETE")
	r.HandleFunc("/api/cart/clear", s.handleClearCart).Methods("POST")
	r.HandleFunc("/api/cart/quote", s.handleQuote).Methods("GET")

	r.HandleFunc("/api/products", s.handleListProducts).Methods("GET")
	r.HandleFunc("/api/products", s.handleDefineProduct).Methods("POST")

	r.HandleFunc("/api/scan/open", s.handleScanOpen).Methods("POST")
	r.HandleFunc("/api/scan/close", s.handleScanClose).Methods("POST")
	r.HandleFunc("/api/scan/status", s.handleScanStatus).Methods("GET")

	r.HandleFunc("/api/draft", s.handleGetDraft).Methods("GET")
	r.HandleFunc("/api/draft/save", s.handleSaveDraft).Methods("POST")
	r.HandleFunc("/api/draft/cancel", s.handleCancelDraft).Methods("POST")

	return r
}

type lineItemDTO struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int32           `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type cartDTO struct {
	CartID string          `json:"cart_id"`
	Items  []lineItemDTO   `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

func (s *Server) cartSnapshot(r *http.Request) cartDTO {
	items := s.cart.Items(r.Context())
	return cartDTO{
		CartID: s.cart.CartID(),
		Items:  toItemDTOs(items),
		Total:  s.cart.Total(r.Context()),
	}
}

func toItemDTOs(items []cartdomain.LineItem) []lineItemDTO {
	out := make([]lineItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, lineItemDTO{
			Code:        it.Code,
			Name:        it.Name,
			Description: it.Description,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cartSnapshot(r))
}

type addItemRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_JSON", err.Error())
		return
	}

	if err := s.cart.AddByCode(r.Context(), req.Code); err != nil {
		s.writeError(w, err)
		return
	}

	resp := struct {
		cartDTO
		Draft *draftDTO `json:"draft,omitempty"`
	}{cartDTO: s.cartSnapshot(r)}

	// A miss may have opened a creation draft; hand it to the client.
	if draft, ok := s.creation.Current(); ok {
		resp.Draft = toDraftDTO(draft)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if !s.cart.RemoveByCode(r.Context(), code) {
		writeErrorCode(w, http.StatusNotFound, "NOT_FOUND", "no line item for code "+code)
		return
	}
	writeJSON(w, http.StatusOK, s.cartSnapshot(r))
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.cart.Clear(r.Context())
	writeJSON(w, http.StatusOK, s.cartSnapshot(r))
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.quote.Quote(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

type defineProductRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
}

func (s *Server) handleDefineProduct(w http.ResponseWriter, r *http.Request) {
	var req defineProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_JSON", err.Error())
		return
	}

	price, err := creationdomain.ParsePrice(req.UnitPrice)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	product, err := s.catalog.Define(r.Context(), req.Code, req.Name, req.Description, price)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

type scanStatusDTO struct {
	SessionID string        `json:"session_id,omitempty"`
	Phase     string        `json:"phase"`
	Error     *scanErrorDTO `json:"error,omitempty"`
}

type scanErrorDTO struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) scanStatus() scanStatusDTO {
	st := s.scanner.Status()
	dto := scanStatusDTO{
		SessionID: st.SessionID,
		Phase:     st.Phase.String(),
	}
	if st.LastError != nil {
		dto.Error = &scanErrorDTO{
			Kind:    string(st.LastError.Kind),
			Message: st.LastError.Error(),
		}
	}
	return dto
}

func (s *Server) handleScanOpen(w http.ResponseWriter, r *http.Request) {
	if err := s.scanner.Open(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.scanStatus())
}

func (s *Server) handleScanClose(w http.ResponseWriter, r *http.Request) {
	s.scanner.Close()
	writeJSON(w, http.StatusOK, s.scanStatus())
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scanStatus())
}

type draftDTO struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceText   string `json:"price"`
}

func toDraftDTO(d creationdomain.Draft) *draftDTO {
	return &draftDTO{
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		PriceText:   d.PriceText,
	}
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, ok := s.creation.Current()
	if !ok {
		writeErrorCode(w, http.StatusNotFound, "NO_DRAFT", "no open creation draft")
		return
	}
	writeJSON(w, http.StatusOK, toDraftDTO(draft))
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var req draftDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_JSON", err.Error())
		return
	}

	err := s.creation.Save(r.Context(), creationdomain.Draft{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		PriceText:   req.PriceText,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.cartSnapshot(r))
}

func (s *Server) handleCancelDraft(w http.ResponseWriter, r *http.Request) {
	s.creation.Cancel(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// statusFromError maps domain failures to HTTP statuses and stable error
// codes for the client.
func statusFromError(err error) (int, string) {
	var verr *creationapp.ValidationError
	var serr *scandomain.Error

	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusBadRequest, "EMPTY_CART"
	case errors.Is(err, catalogapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, creationapp.ErrNoDraft):
		return http.StatusNotFound, "NO_DRAFT"
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, "VALIDATION"
	case errors.As(err, &serr):
		if serr.Kind == scandomain.KindCapabilityUnavailable {
			return http.StatusNotImplemented, strings.ToUpper(string(serr.Kind))
		}
		return http.StatusConflict, strings.ToUpper(string(serr.Kind))
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := statusFromError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", slog.Any("err", err))
	}
	writeErrorCode(w, status, code, err.Error())
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeErrorCode(w http.ResponseWriter, status int, code, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
