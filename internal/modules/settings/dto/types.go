package dto

type ParametersOutput struct {
	BaseEase             int     `json:"baseEase"`
	LapsesIntervalChange float64 `json:"lapsesIntervalChange"`
	EasyBonus            float64 `json:"easyBonus"`
	LoadBalance          bool    `json:"loadBalance"`
	MaximumInterval      int     `json:"maximumInterval"`
	MaxLinkFactor        float64 `json:"maxLinkFactor"`
}

type SettingsOutput struct {
	Algorithm                   string           `json:"algorithm"`
	DataStore                   string           `json:"dataStore"`
	OsrParams                   ParametersOutput `json:"osrParams"`
	MaxNDaysNotesReviewQueue    int              `json:"maxNDaysNotesReviewQueue"`
	FlashcardCardOrder          string           `json:"flashcardCardOrder"`
	FlashcardDeckOrder          string           `json:"flashcardDeckOrder"`
	ClozePatterns               []string         `json:"clozePatterns"`
	ShowSchedulingDebugMessages bool             `json:"showSchedulingDebugMessages"`
}

type SetInput struct {
	Key   string
	Value string
}

type MigrateOutput struct {
	Path     string `json:"path"`
	Migrated bool   `json:"migrated"`
}

type CheckOutput struct {
	Warnings []string `json:"warnings"`
}
