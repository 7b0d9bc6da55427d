package transform

// Field-level defaulting helpers. The upstream omits fields during rollout,
// so every scalar is defaulted independently; one missing counter must not
// blank an entire card.

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func int64Or(v *int64, fallback int64) int64 {
	if v == nil {
		return fallback
	}
	return *v
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func tagsOr(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
