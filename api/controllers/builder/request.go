package builder

import (
	buildersvc "github.com/angelmondragon/florale-backend/internal/builder"
)

// SetStepRequest jumps the wizard to a step in [1,6].
type SetStepRequest struct {
	Step int `json:"step" validate:"required,min=1,max=6"`
}

// UpdateConfigRequest sets any subset of the bouquet selection by option id.
type UpdateConfigRequest struct {
	StyleID      *string `json:"style_id" validate:"omitempty,max=64"`
	PaletteID    *string `json:"palette_id" validate:"omitempty,max=64"`
	SizeID       *string `json:"size_id" validate:"omitempty,max=64"`
	PackagingID  *string `json:"packaging_id" validate:"omitempty,max=64"`
	RibbonColor  *string `json:"ribbon_color" validate:"omitempty,max=32"`
	CardMessage  *string `json:"card_message" validate:"omitempty,max=200"`
	CardDesignID *string `json:"card_design_id" validate:"omitempty,max=64"`
}

func toUpdateInput(payload UpdateConfigRequest) buildersvc.UpdateInput {
	return buildersvc.UpdateInput{
		StyleID:      payload.StyleID,
		PaletteID:    payload.PaletteID,
		SizeID:       payload.SizeID,
		PackagingID:  payload.PackagingID,
		RibbonColor:  payload.RibbonColor,
		CardMessage:  payload.CardMessage,
		CardDesignID: payload.CardDesignID,
	}
}
