package cli

var (
	SeedAnalysisForTest  = seedAnalysis
	WatchAnalysisForTest = watchAnalysis
)
