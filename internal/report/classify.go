package report

// classifySession determines whether every exercise in the session shares one
// category. The resulting shape gates the Athletic Quality and Position
// Relevance formulas and the feedback warning suppression: a session
// deliberately focused on conditioning or mobility should not be scored or
// warned as if it were an incomplete strength session.
func classifySession(entries []LoggedExercise) SessionShape {
	distinct := make(map[Category]struct{}, len(entries))
	for _, entry := range entries {
		distinct[entry.Category] = struct{}{}
	}

	if len(distinct) == 1 {
		for category := range distinct {
			return SessionShape{SingleCategory: true, Primary: category}
		}
	}

	return SessionShape{SingleCategory: false, Primary: ""}
}

// specializedCategories are the single-category session types whose warnings
// are suppressed entirely. A pure strength session still gets the full
// warning set.
var specializedCategories = map[Category]struct{}{ //nolint:gochecknoglobals // immutable lookup table.
	CategoryConditioning: {},
	CategoryMobility:     {},
	CategoryRecovery:     {},
	CategoryTechnique:    {},
	CategorySpeed:        {},
	CategoryCOD:          {},
	CategoryPlyometrics:  {},
}

// isSpecialized reports whether the shape is a single-category session of a
// specialized (non-strength) category.
func (s SessionShape) isSpecialized() bool {
	if !s.SingleCategory {
		return false
	}
	_, ok := specializedCategories[s.Primary]
	return ok
}
