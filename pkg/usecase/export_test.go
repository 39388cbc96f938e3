package usecase

var (
	SelectFindingsForTest = selectFindings
)

const MaxSuggestionsForTest = maxSuggestions
