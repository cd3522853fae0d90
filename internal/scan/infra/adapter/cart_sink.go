package adapter

import (
	"context"
	"log/slog"

	cartapp "github.com/nicolasrigourd/pos-mobile/internal/cart/app"
)

// CartSink feeds accepted barcode values into the cart aggregator, the same
// path manual entry takes.
type CartSink struct {
	cart *cartapp.Service
	log  *slog.Logger
}

func NewCartSink(cart *cartapp.Service, log *slog.Logger) *CartSink {
	return &CartSink{cart: cart, log: log}
}

func (s *CartSink) AcceptCode(ctx context.Context, code string) {
	if err := s.cart.AddByCode(ctx, code); err != nil {
		s.log.Error("scanned code rejected", slog.String("code", code), slog.Any("err", err))
	}
}
