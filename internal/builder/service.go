package builder

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/angelmondragon/florale-backend/internal/cart"
	"github.com/angelmondragon/florale-backend/internal/catalog"
	"github.com/angelmondragon/florale-backend/pkg/bridge"
	"github.com/angelmondragon/florale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
	"github.com/angelmondragon/florale-backend/pkg/logger"
	"github.com/angelmondragon/florale-backend/pkg/snapshot"
)

// PrimaryActionLabel is shown by the host on the summary step.
const PrimaryActionLabel = "Add to cart"

// View is the wizard state returned to clients.
type View struct {
	CurrentStep int        `json:"current_step"`
	Selection   Selection  `json:"selection"`
	Price       int64      `json:"price"`
	CanAdvance  bool       `json:"can_advance"`
	Config      ConfigView `json:"config"`
}

// ConfigView renders the Configuration variant.
type ConfigView struct {
	Kind     string          `json:"kind"`
	Missing  []string        `json:"missing,omitempty"`
	Complete *CompleteConfig `json:"complete,omitempty"`
}

func newView(c *Configurator) View {
	view := View{
		CurrentStep: c.Step(),
		Selection:   c.Selection(),
		Price:       c.CalculatePrice(),
		CanAdvance:  c.Step() < LastStep && c.IsStepValid(c.Step()),
	}
	switch cfg := c.Config().(type) {
	case CompleteConfig:
		view.Config = ConfigView{Kind: cfg.Kind(), Complete: &cfg}
	case PartialConfig:
		view.Config = ConfigView{Kind: cfg.Kind(), Missing: cfg.Missing}
	default:
		view.Config = ConfigView{Kind: KindEmpty}
	}
	return view
}

// UpdateInput sets the non-nil fields. Ids are resolved against the catalog option tables.
type UpdateInput struct {
	StyleID      *string
	PaletteID    *string
	SizeID       *string
	PackagingID  *string
	RibbonColor  *string
	CardMessage  *string
	CardDesignID *string
}

// Service exposes the session-scoped bouquet builder.
type Service interface {
	Get(ctx context.Context, sessionID string) (View, error)
	Options() catalog.Options
	Next(ctx context.Context, sessionID string) (View, error)
	Prev(ctx context.Context, sessionID string) (View, error)
	SetStep(ctx context.Context, sessionID string, step int) (View, error)
	Update(ctx context.Context, sessionID string, input UpdateInput) (View, error)
	Reset(ctx context.Context, sessionID string) (View, error)
	AddToCart(ctx context.Context, sessionID string) (cart.Summary, error)
}

type optionCatalog interface {
	Options() catalog.Options
	Style(id string) (catalog.Style, bool)
	Palette(id string) (catalog.Palette, bool)
	BuilderSize(id string) (catalog.ProductSize, bool)
	Packaging(id string) (catalog.PackagingOption, bool)
	CardDesign(id string) (catalog.CardDesign, bool)
}

type cartAdder interface {
	AddItem(ctx context.Context, sessionID string, input cart.AddItemInput) (cart.Summary, error)
}

type stepRecorder interface {
	IncBuilderStep(direction string, moved bool)
	ObserveSnapshotLoad(kind string, duration time.Duration)
}

type service struct {
	store   snapshot.Store
	options optionCatalog
	cart    cartAdder
	bridge  bridge.Bridge
	metrics stepRecorder
	locks   *snapshot.SessionLocks
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds a builder service backed by the provided snapshot store.
func NewService(store snapshot.Store, options optionCatalog, carts cartAdder, br bridge.Bridge, metrics stepRecorder, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if options == nil {
		return nil, fmt.Errorf("option catalog required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
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
		options: options,
		cart:    carts,
		bridge:  br,
		metrics: metrics,
		locks:   snapshot.NewSessionLocks(),
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) Options() catalog.Options {
	return s.options.Options()
}

func (s *service) Get(ctx context.Context, sessionID string) (View, error) {
	if err := requireSession(sessionID); err != nil {
		return View{}, err
	}
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return newView(c), nil
}

func (s *service) Next(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, sessionID, func(c *Configurator) {
		moved := c.NextStep()
		s.metrics.IncBuilderStep("next", moved)
		if moved {
			s.bridge.Haptic(ctx, enums.HapticLight)
		}
	})
}

func (s *service) Prev(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, sessionID, func(c *Configurator) {
		moved := c.PrevStep()
		s.metrics.IncBuilderStep("prev", moved)
		s.bridge.Haptic(ctx, enums.HapticLight)
	})
}

func (s *service) SetStep(ctx context.Context, sessionID string, step int) (View, error) {
	if step < FirstStep || step > LastStep {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "step out of range").
			WithDetails(map[string]any{"min": FirstStep, "max": LastStep})
	}
	return s.mutate(ctx, sessionID, func(c *Configurator) {
		s.metrics.IncBuilderStep("jump", c.SetStep(step))
	})
}

func (s *service) Update(ctx context.Context, sessionID string, input UpdateInput) (View, error) {
	apply, err := s.resolve(input)
	if err != nil {
		return View{}, err
	}
	view, err := s.mutate(ctx, sessionID, func(c *Configurator) {
		for _, fn := range apply {
			fn(c)
		}
	})
	if err != nil {
		return View{}, err
	}
	s.bridge.Haptic(ctx, enums.HapticSelection)
	return view, nil
}

func (s *service) Reset(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, sessionID, func(c *Configurator) {
		c.Reset()
	})
}

// AddToCart converts the complete configuration into a cart line and resets the wizard.
func (s *service) AddToCart(ctx context.Context, sessionID string) (cart.Summary, error) {
	if err := requireSession(sessionID); err != nil {
		return cart.Summary{}, err
	}
	unlock := s.locks.Lock(snapshot.KindBuilder, sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return cart.Summary{}, err
	}

	switch cfg := c.Config().(type) {
	case CompleteConfig:
		packaging := cfg.Packaging
		summary, err := s.cart.AddItem(ctx, sessionID, cart.AddItemInput{
			Product:     cfg.ToProduct(s.now()),
			Size:        cfg.Size,
			Packaging:   &packaging,
			CardMessage: cfg.CardMessage,
			CardDesign:  cfg.CardDesign,
		})
		if err != nil {
			return cart.Summary{}, err
		}
		// the line is already in the cart; a failed reset leaves a stale draft, not a lost order
		c.Reset()
		if err := s.save(ctx, sessionID, c); err != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "builder.add_to_cart.reset_not_saved")
			return summary, nil
		}
		s.syncPrimaryAction(ctx, sessionID, c)
		return summary, nil
	case PartialConfig:
		return cart.Summary{}, pkgerrors.New(pkgerrors.CodeStateConflict, "bouquet configuration is incomplete").
			WithDetails(map[string]any{"missing": cfg.Missing})
	default:
		return cart.Summary{}, pkgerrors.New(pkgerrors.CodeStateConflict, "bouquet configuration is empty")
	}
}

func (s *service) mutate(ctx context.Context, sessionID string, fn func(*Configurator)) (View, error) {
	if err := requireSession(sessionID); err != nil {
		return View{}, err
	}
	unlock := s.locks.Lock(snapshot.KindBuilder, sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	fn(c)
	if err := s.save(ctx, sessionID, c); err != nil {
		return View{}, err
	}
	s.syncPrimaryAction(ctx, sessionID, c)
	return newView(c), nil
}

// syncPrimaryAction shows the add-to-cart action on the summary step and hides it elsewhere.
func (s *service) syncPrimaryAction(ctx context.Context, sessionID string, c *Configurator) {
	ctx = bridge.WithSession(ctx, sessionID)
	if c.Step() != LastStep {
		s.bridge.HidePrimaryAction(ctx)
		return
	}
	s.bridge.ShowPrimaryAction(ctx, PrimaryActionLabel, func() {
		actx := s.logg.WithSessionID(context.Background(), sessionID)
		if _, err := s.AddToCart(actx, sessionID); err != nil {
			s.logg.Error(actx, "builder.primary_action.failed", err)
		}
	})
}

func (s *service) load(ctx context.Context, sessionID string) (*Configurator, error) {
	started := time.Now()
	c := NewConfigurator()
	_, err := s.store.Load(ctx, snapshot.KindBuilder, sessionID, c)
	s.metrics.ObserveSnapshotLoad(string(snapshot.KindBuilder), time.Since(started))
	if err != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "builder.snapshot.load_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load builder")
	}
	return c, nil
}

func (s *service) save(ctx context.Context, sessionID string, c *Configurator) error {
	if err := s.store.Save(ctx, snapshot.KindBuilder, sessionID, c); err != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "builder.snapshot.save_failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save builder")
	}
	return nil
}

func (s *service) resolve(input UpdateInput) ([]func(*Configurator), error) {
	var apply []func(*Configurator)

	if input.StyleID != nil {
		style, ok := s.options.Style(*input.StyleID)
		if !ok {
			return nil, unknownOption("style", *input.StyleID)
		}
		apply = append(apply, func(c *Configurator) { c.SetStyle(style.ID) })
	}
	if input.PaletteID != nil {
		palette, ok := s.options.Palette(*input.PaletteID)
		if !ok {
			return nil, unknownOption("palette", *input.PaletteID)
		}
		apply = append(apply, func(c *Configurator) { c.SetColorPalette(palette.ID) })
	}
	if input.SizeID != nil {
		size, ok := s.options.BuilderSize(*input.SizeID)
		if !ok {
			return nil, unknownOption("size", *input.SizeID)
		}
		apply = append(apply, func(c *Configurator) { c.SetSize(size) })
	}
	if input.PackagingID != nil {
		packaging, ok := s.options.Packaging(*input.PackagingID)
		if !ok {
			return nil, unknownOption("packaging", *input.PackagingID)
		}
		apply = append(apply, func(c *Configurator) { c.SetPackaging(packaging) })
	}
	if input.RibbonColor != nil {
		color := *input.RibbonColor
		apply = append(apply, func(c *Configurator) { c.SetRibbonColor(color) })
	}
	if input.CardMessage != nil {
		message := *input.CardMessage
		if utf8.RuneCountInString(message) > cart.MaxCardMessageLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "card message is too long").
				WithDetails(map[string]any{"max_length": cart.MaxCardMessageLength})
		}
		apply = append(apply, func(c *Configurator) { c.SetCardMessage(message) })
	}
	if input.CardDesignID != nil {
		design, ok := s.options.CardDesign(*input.CardDesignID)
		if !ok {
			return nil, unknownOption("card_design", *input.CardDesignID)
		}
		apply = append(apply, func(c *Configurator) { c.SetCardDesign(design.ID) })
	}

	if len(apply) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	return apply, nil
}

func unknownOption(field, id string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "unknown "+field).
		WithDetails(map[string]any{"field": field, "id": id})
}

func requireSession(sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}

type noopRecorder struct{}

func (noopRecorder) IncBuilderStep(string, bool)               {}
func (noopRecorder) ObserveSnapshotLoad(string, time.Duration) {}
