package topics

const (
	// Tips
	TipPlaced = "tip_placed"

	// Resultados
	ResultDeclared = "result_declared"
	ResultsCleared = "results_cleared"

	// Perfis
	ProfileUpdated = "profile_updated"
)
