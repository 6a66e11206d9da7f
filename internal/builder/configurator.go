package builder

import (
	"encoding/json"

	"github.com/angelmondragon/florale-backend/internal/catalog"
)

const (
	FirstStep = 1
	LastStep  = 6
)

// Selection is the draft accumulated by the wizard. Zero values mean "not chosen".
type Selection struct {
	Style        string                   `json:"style,omitempty"`
	ColorPalette string                   `json:"color_palette,omitempty"`
	Size         *catalog.ProductSize     `json:"size,omitempty"`
	Packaging    *catalog.PackagingOption `json:"packaging,omitempty"`
	RibbonColor  string                   `json:"ribbon_color,omitempty"`
	CardMessage  string                   `json:"card_message,omitempty"`
	CardDesign   string                   `json:"card_design,omitempty"`
}

func (s Selection) isEmpty() bool {
	return s == Selection{}
}

// Configurator is the six-step bouquet wizard. The step always stays within [FirstStep, LastStep].
type Configurator struct {
	step      int
	selection Selection
}

func NewConfigurator() *Configurator {
	return &Configurator{step: FirstStep}
}

func (c *Configurator) Step() int {
	return c.step
}

func (c *Configurator) Selection() Selection {
	return c.selection
}

// NextStep advances when the current step is valid. Reports whether the step moved.
func (c *Configurator) NextStep() bool {
	if c.step >= LastStep || !c.IsStepValid(c.step) {
		return false
	}
	c.step++
	return true
}

// PrevStep moves back one step. Reports whether the step moved.
func (c *Configurator) PrevStep() bool {
	if c.step <= FirstStep {
		return false
	}
	c.step--
	return true
}

// SetStep jumps to step without checking that earlier steps are complete.
// Values outside [FirstStep, LastStep] are ignored.
func (c *Configurator) SetStep(step int) bool {
	if step < FirstStep || step > LastStep {
		return false
	}
	c.step = step
	return true
}

func (c *Configurator) SetStyle(style string) {
	c.selection.Style = style
}

func (c *Configurator) SetColorPalette(palette string) {
	c.selection.ColorPalette = palette
}

func (c *Configurator) SetSize(size catalog.ProductSize) {
	c.selection.Size = &size
}

func (c *Configurator) SetPackaging(packaging catalog.PackagingOption) {
	c.selection.Packaging = &packaging
}

func (c *Configurator) SetRibbonColor(color string) {
	c.selection.RibbonColor = color
}

func (c *Configurator) SetCardMessage(message string) {
	c.selection.CardMessage = message
}

func (c *Configurator) SetCardDesign(design string) {
	c.selection.CardDesign = design
}

// IsStepValid reports whether step has what it needs. Card and summary steps are always valid.
func (c *Configurator) IsStepValid(step int) bool {
	switch step {
	case 1:
		return c.selection.Style != ""
	case 2:
		return c.selection.ColorPalette != ""
	case 3:
		return c.selection.Size != nil
	case 4:
		return c.selection.Packaging != nil
	case 5, 6:
		return true
	default:
		return false
	}
}

// CalculatePrice is size price plus packaging price. Style, palette and card add nothing.
func (c *Configurator) CalculatePrice() int64 {
	var price int64
	if c.selection.Size != nil {
		price += c.selection.Size.Price
	}
	if c.selection.Packaging != nil {
		price += c.selection.Packaging.Price
	}
	return price
}

// Config classifies the current selection. The price of a complete config is computed at call time.
func (c *Configurator) Config() Configuration {
	sel := c.selection
	if sel.isEmpty() {
		return EmptyConfig{}
	}
	if missing := missingFields(sel); len(missing) > 0 {
		return PartialConfig{Selection: sel, Missing: missing, Price: c.CalculatePrice()}
	}
	return CompleteConfig{
		Style:        sel.Style,
		ColorPalette: sel.ColorPalette,
		Size:         *sel.Size,
		Packaging:    *sel.Packaging,
		RibbonColor:  sel.RibbonColor,
		CardMessage:  sel.CardMessage,
		CardDesign:   sel.CardDesign,
		Price:        c.CalculatePrice(),
	}
}

// Complete returns the priced config when every required field is present.
func (c *Configurator) Complete() (CompleteConfig, bool) {
	cfg, ok := c.Config().(CompleteConfig)
	return cfg, ok
}

// Reset returns to step 1 with an empty selection.
func (c *Configurator) Reset() {
	c.step = FirstStep
	c.selection = Selection{}
}

func missingFields(sel Selection) []string {
	var missing []string
	if sel.Style == "" {
		missing = append(missing, "style")
	}
	if sel.ColorPalette == "" {
		missing = append(missing, "color_palette")
	}
	if sel.Size == nil {
		missing = append(missing, "size")
	}
	if sel.Packaging == nil {
		missing = append(missing, "packaging")
	}
	return missing
}

type configuratorState struct {
	CurrentStep int       `json:"current_step"`
	Selection   Selection `json:"selection"`
}

func (c *Configurator) MarshalJSON() ([]byte, error) {
	return json.Marshal(configuratorState{CurrentStep: c.step, Selection: c.selection})
}

func (c *Configurator) UnmarshalJSON(data []byte) error {
	var state configuratorState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	c.selection = state.Selection
	c.step = FirstStep
	c.SetStep(state.CurrentStep)
	return nil
}
