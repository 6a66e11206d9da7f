package enums

// HapticKind names the tactile acknowledgement the host platform plays.
type HapticKind string

const (
	HapticLight     HapticKind = "light"
	HapticMedium    HapticKind = "medium"
	HapticHeavy     HapticKind = "heavy"
	HapticSuccess   HapticKind = "success"
	HapticError     HapticKind = "error"
	HapticWarning   HapticKind = "warning"
	HapticSelection HapticKind = "selection"
)

// String implements fmt.Stringer.
func (h HapticKind) String() string {
	return string(h)
}

// IsImpact reports whether the kind maps to an impact (vs notification/selection) feedback.
func (h HapticKind) IsImpact() bool {
	return h == HapticLight || h == HapticMedium || h == HapticHeavy
}

// IsNotification reports whether the kind maps to a notification feedback.
func (h HapticKind) IsNotification() bool {
	return h == HapticSuccess || h == HapticError || h == HapticWarning
}
