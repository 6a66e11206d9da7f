package cart

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/angelmondragon/florale-backend/internal/catalog"
	"github.com/angelmondragon/florale-backend/pkg/bridge"
	"github.com/angelmondragon/florale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
	"github.com/angelmondragon/florale-backend/pkg/logger"
	"github.com/angelmondragon/florale-backend/pkg/snapshot"
)

// Summary is the cart view returned after every operation.
type Summary struct {
	Items      []Item `json:"items"`
	Total      int64  `json:"total"`
	ItemsCount int    `json:"items_count"`
}

func summarize(l *Ledger) Summary {
	return Summary{Items: l.Items(), Total: l.Total(), ItemsCount: l.ItemsCount()}
}

// AddItemInput carries a fully resolved line. Used by the bouquet builder for synthetic products.
type AddItemInput struct {
	Product     catalog.Product
	Size        catalog.ProductSize
	Packaging   *catalog.PackagingOption
	CardMessage string
	CardDesign  string
}

// AddProductInput references catalog ids. Empty SizeID selects the product's first size.
type AddProductInput struct {
	ProductID   string
	SizeID      string
	PackagingID string
	CardMessage string
	CardDesign  string
}

// Service exposes the session-scoped cart ledger.
type Service interface {
	Get(ctx context.Context, sessionID string) (Summary, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (Summary, error)
	AddProduct(ctx context.Context, sessionID string, input AddProductInput) (Summary, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (Summary, error)
	RemoveLine(ctx context.Context, sessionID, productID, sizeID string) (Summary, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (Summary, error)
	UpdateLineQuantity(ctx context.Context, sessionID, productID, sizeID string, quantity int) (Summary, error)
	UpdatePackaging(ctx context.Context, sessionID, productID, packagingID string) (Summary, error)
	UpdateCardMessage(ctx context.Context, sessionID, productID, message string) (Summary, error)
	Clear(ctx context.Context, sessionID string) (Summary, error)
	Checkout(ctx context.Context, sessionID string, place func(Summary) error) error
}

type productCatalog interface {
	Product(id string) (catalog.Product, error)
	Packaging(id string) (catalog.PackagingOption, bool)
}

type opRecorder interface {
	IncCartOp(op string)
	ObserveSnapshotLoad(kind string, duration time.Duration)
}

type service struct {
	store   snapshot.Store
	catalog productCatalog
	bridge  bridge.Bridge
	metrics opRecorder
	locks   *snapshot.SessionLocks
	logg    *logger.Logger
}

// NewService builds a cart service backed by the provided snapshot store.
func NewService(store snapshot.Store, products productCatalog, br bridge.Bridge, metrics opRecorder, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if products == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if br == nil {
		br = bridge.Noop{}
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &service{
		store:   store,
		catalog: products,
		bridge:  br,
		metrics: metrics,
		locks:   snapshot.NewSessionLocks(),
		logg:    logg,
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (Summary, error) {
	if err := requireSession(sessionID); err != nil {
		return Summary{}, err
	}
	ledger, err := s.load(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	return summarize(ledger), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (Summary, error) {
	if input.Product.ID == "" || input.Size.ID == "" {
		return Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "product and size are required")
	}
	if err := validateCardMessage(input.CardMessage); err != nil {
		return Summary{}, err
	}
	return s.mutate(ctx, sessionID, "add", enums.HapticSuccess, func(l *Ledger) {
		l.AddItem(input.Product, input.Size, input.Packaging, input.CardMessage, input.CardDesign)
	})
}

func (s *service) AddProduct(ctx context.Context, sessionID string, input AddProductInput) (Summary, error) {
	product, err := s.catalog.Product(input.ProductID)
	if err != nil {
		return Summary{}, err
	}
	size, ok := product.Size(input.SizeID)
	if !ok {
		return Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown size for product").
			WithDetails(map[string]any{"product_id": product.ID, "size_id": input.SizeID})
	}
	packaging, err := s.resolvePackaging(input.PackagingID)
	if err != nil {
		return Summary{}, err
	}
	return s.AddItem(ctx, sessionID, AddItemInput{
		Product:     product,
		Size:        size,
		Packaging:   packaging,
		CardMessage: input.CardMessage,
		CardDesign:  input.CardDesign,
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID, productID string) (Summary, error) {
	return s.mutate(ctx, sessionID, "remove", enums.HapticMedium, func(l *Ledger) {
		l.RemoveItem(productID)
	})
}

func (s *service) RemoveLine(ctx context.Context, sessionID, productID, sizeID string) (Summary, error) {
	return s.mutate(ctx, sessionID, "remove_line", enums.HapticMedium, func(l *Ledger) {
		l.RemoveLine(productID, sizeID)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (Summary, error) {
	op, haptic := quantityOp(quantity)
	return s.mutate(ctx, sessionID, op, haptic, func(l *Ledger) {
		l.UpdateQuantity(productID, quantity)
	})
}

func (s *service) UpdateLineQuantity(ctx context.Context, sessionID, productID, sizeID string, quantity int) (Summary, error) {
	op, haptic := quantityOp(quantity)
	return s.mutate(ctx, sessionID, op, haptic, func(l *Ledger) {
		l.UpdateLineQuantity(productID, sizeID, quantity)
	})
}

func (s *service) UpdatePackaging(ctx context.Context, sessionID, productID, packagingID string) (Summary, error) {
	packaging, err := s.resolvePackaging(packagingID)
	if err != nil {
		return Summary{}, err
	}
	return s.mutate(ctx, sessionID, "packaging", enums.HapticSelection, func(l *Ledger) {
		l.UpdatePackaging(productID, packaging)
	})
}

func (s *service) UpdateCardMessage(ctx context.Context, sessionID, productID, message string) (Summary, error) {
	if err := validateCardMessage(message); err != nil {
		return Summary{}, err
	}
	return s.mutate(ctx, sessionID, "card_message", "", func(l *Ledger) {
		l.UpdateCardMessage(productID, message)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (Summary, error) {
	return s.mutate(ctx, sessionID, "clear", "", func(l *Ledger) {
		l.Clear()
	})
}

// Checkout holds the session's cart lock while place turns the cart into an order, and empties
// the cart only when place succeeds. Lines added concurrently wait and land in the fresh cart.
func (s *service) Checkout(ctx context.Context, sessionID string, place func(Summary) error) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	unlock := s.locks.Lock(snapshot.KindCart, sessionID)
	defer unlock()

	ledger, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := place(summarize(ledger)); err != nil {
		return err
	}

	ledger.Clear()
	if err := s.store.Save(ctx, snapshot.KindCart, sessionID, ledger); err != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "cart.checkout.clear_failed", err)
		return ErrCheckoutNotCleared
	}
	s.metrics.IncCartOp("checkout")
	return nil
}

func (s *service) mutate(ctx context.Context, sessionID, op string, haptic enums.HapticKind, fn func(*Ledger)) (Summary, error) {
	if err := requireSession(sessionID); err != nil {
		return Summary{}, err
	}
	unlock := s.locks.Lock(snapshot.KindCart, sessionID)
	defer unlock()

	ledger, err := s.load(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	fn(ledger)
	if err := s.store.Save(ctx, snapshot.KindCart, sessionID, ledger); err != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "cart.snapshot.save_failed", err)
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	s.metrics.IncCartOp(op)
	if haptic != "" {
		s.bridge.Haptic(ctx, haptic)
	}
	return summarize(ledger), nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Ledger, error) {
	started := time.Now()
	ledger := NewLedger(nil)
	_, err := s.store.Load(ctx, snapshot.KindCart, sessionID, ledger)
	s.metrics.ObserveSnapshotLoad(string(snapshot.KindCart), time.Since(started))
	if err != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "cart.snapshot.load_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return ledger, nil
}

func (s *service) resolvePackaging(id string) (*catalog.PackagingOption, error) {
	if id == "" {
		return nil, nil
	}
	option, ok := s.catalog.Packaging(id)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown packaging option").
			WithDetails(map[string]any{"packaging_id": id})
	}
	return &option, nil
}

func quantityOp(quantity int) (string, enums.HapticKind) {
	if quantity <= 0 {
		return "remove", enums.HapticMedium
	}
	return "quantity", enums.HapticLight
}

func requireSession(sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}

func validateCardMessage(message string) error {
	if utf8.RuneCountInString(message) > MaxCardMessageLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "card message is too long").
			WithDetails(map[string]any{"max_length": MaxCardMessageLength})
	}
	return nil
}

// ErrCheckoutNotCleared reports that the order was placed but the emptied cart could not be saved.
var ErrCheckoutNotCleared = pkgerrors.New(pkgerrors.CodeDependency, "order placed but cart was not cleared")

type noopRecorder struct{}

func (noopRecorder) IncCartOp(string)                          {}
func (noopRecorder) ObserveSnapshotLoad(string, time.Duration) {}
