package builder

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/angelmondragon/florale-backend/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mediumSize = catalog.ProductSize{ID: "medium", Name: "M", Price: 5500}
	kraftWrap  = catalog.PackagingOption{ID: "kraft", Name: "Kraft", Price: 200}
)

func fill(c *Configurator) {
	c.SetStyle("classic")
	c.SetColorPalette("pastel")
	c.SetSize(mediumSize)
	c.SetPackaging(kraftWrap)
}

func TestNextStepBlockedUntilStepValid(t *testing.T) {
	c := NewConfigurator()

	assert.False(t, c.NextStep())
	assert.Equal(t, 1, c.Step())

	c.SetStyle("classic")
	assert.True(t, c.NextStep())
	assert.Equal(t, 2, c.Step())

	assert.False(t, c.NextStep())
	assert.Equal(t, 2, c.Step())
}

func TestStepBounds(t *testing.T) {
	c := NewConfigurator()
	assert.False(t, c.PrevStep())
	assert.Equal(t, FirstStep, c.Step())

	fill(c)
	for i := 0; i < 10; i++ {
		c.NextStep()
	}
	assert.Equal(t, LastStep, c.Step())
	assert.False(t, c.NextStep())

	assert.True(t, c.PrevStep())
	assert.Equal(t, 5, c.Step())
}

func TestSetStepIsUnguardedButBounded(t *testing.T) {
	c := NewConfigurator()

	assert.True(t, c.SetStep(6))
	assert.Equal(t, 6, c.Step())
	_, ok := c.Complete()
	assert.False(t, ok)

	assert.False(t, c.SetStep(0))
	assert.False(t, c.SetStep(7))
	assert.Equal(t, 6, c.Step())
}

func TestIsStepValid(t *testing.T) {
	c := NewConfigurator()
	for _, step := range []int{1, 2, 3, 4} {
		assert.False(t, c.IsStepValid(step), "step %d", step)
	}
	assert.True(t, c.IsStepValid(5))
	assert.True(t, c.IsStepValid(6))
	assert.False(t, c.IsStepValid(0))
	assert.False(t, c.IsStepValid(7))

	fill(c)
	for _, step := range []int{1, 2, 3, 4} {
		assert.True(t, c.IsStepValid(step), "step %d", step)
	}
}

func TestSettersMergeOneField(t *testing.T) {
	c := NewConfigurator()
	fill(c)
	c.SetRibbonColor("#D2691E")
	c.SetCardMessage("Happy birthday")
	c.SetCardDesign("floral")
	c.SetStyle("mono")

	sel := c.Selection()
	assert.Equal(t, "mono", sel.Style)
	assert.Equal(t, "pastel", sel.ColorPalette)
	require.NotNil(t, sel.Size)
	assert.Equal(t, "medium", sel.Size.ID)
	assert.Equal(t, "#D2691E", sel.RibbonColor)
	assert.Equal(t, "floral", sel.CardDesign)
}

func TestConfigVariants(t *testing.T) {
	c := NewConfigurator()
	assert.Equal(t, KindEmpty, c.Config().Kind())

	c.SetStyle("classic")
	c.SetColorPalette("pastel")
	c.SetSize(mediumSize)

	partial, ok := c.Config().(PartialConfig)
	require.True(t, ok)
	assert.Equal(t, []string{"packaging"}, partial.Missing)
	assert.Equal(t, int64(5500), partial.Price)
	_, ok = c.Complete()
	assert.False(t, ok)

	c.SetPackaging(kraftWrap)
	complete, ok := c.Complete()
	require.True(t, ok)
	assert.Equal(t, int64(5700), complete.Price)
	assert.Equal(t, "classic", complete.Style)
}

func TestCalculatePriceIgnoresStyleAndCard(t *testing.T) {
	c := NewConfigurator()
	assert.Equal(t, int64(0), c.CalculatePrice())

	c.SetStyle("exotic")
	c.SetCardMessage("hi")
	assert.Equal(t, int64(0), c.CalculatePrice())

	c.SetPackaging(kraftWrap)
	assert.Equal(t, int64(200), c.CalculatePrice())
}

func TestResetClearsEverything(t *testing.T) {
	c := NewConfigurator()
	fill(c)
	c.SetStep(4)

	c.Reset()
	_, ok := c.Complete()
	assert.False(t, ok)
	assert.Equal(t, 1, c.Step())
	assert.Equal(t, KindEmpty, c.Config().Kind())
}

func TestToProduct(t *testing.T) {
	c := NewConfigurator()
	fill(c)
	cfg, ok := c.Complete()
	require.True(t, ok)

	now := time.UnixMilli(1767225600000)
	p := cfg.ToProduct(now)
	assert.Equal(t, "custom-1767225600000", p.ID)
	assert.Equal(t, "Style: classic, Palette: pastel", p.Description)
	assert.Equal(t, int64(5500), p.Price)
	assert.Equal(t, float64(5), p.Rating)
	assert.Equal(t, "custom", p.Category)
	assert.Equal(t, []catalog.ProductSize{mediumSize}, p.Sizes)
	assert.True(t, p.InStock)
}

func TestSnapshotRoundTripClampsStep(t *testing.T) {
	c := NewConfigurator()
	fill(c)
	c.SetStep(3)

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	restored := NewConfigurator()
	require.NoError(t, json.Unmarshal(raw, restored))
	assert.Equal(t, 3, restored.Step())
	assert.Equal(t, c.Selection(), restored.Selection())

	bad := NewConfigurator()
	require.NoError(t, json.Unmarshal([]byte(`{"current_step":42,"selection":{}}`), bad))
	assert.Equal(t, FirstStep, bad.Step())
}
