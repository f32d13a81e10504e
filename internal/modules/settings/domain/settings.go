package domain

import (
	"fmt"

	schedulingdomain "srs/internal/modules/scheduling/domain"
)

const (
	CardOrderDueFirstRandom     = "DueFirstRandom"
	CardOrderDueFirstSequential = "DueFirstSequential"
	DeckOrderPrevComplete       = "PrevDeckComplete_Sequential"

	MinBaseEase = 130
)

// Settings is the part of the plugin data file this program understands. Keys
// it does not know about are carried through untouched by the codec.
type Settings struct {
	Algorithm                   schedulingdomain.AlgorithmName `json:"algorithm"`
	DataStore                   schedulingdomain.DataStoreName `json:"dataStore"`
	OsrParams                   schedulingdomain.Parameters    `json:"osrParams"`
	MaxNDaysNotesReviewQueue    int                            `json:"maxNDaysNotesReviewQueue"`
	FlashcardCardOrder          string                         `json:"flashcardCardOrder"`
	FlashcardDeckOrder          string                         `json:"flashcardDeckOrder"`
	ClozePatterns               []string                       `json:"clozePatterns"`
	ShowSchedulingDebugMessages bool                           `json:"showSchedulingDebugMessages"`
}

func Defaults() Settings {
	return Settings{
		Algorithm:                schedulingdomain.AlgorithmOSR,
		DataStore:                schedulingdomain.DataStoreNotes,
		OsrParams:                schedulingdomain.DefaultParameters(),
		MaxNDaysNotesReviewQueue: 365,
		FlashcardCardOrder:       CardOrderDueFirstRandom,
		FlashcardDeckOrder:       DeckOrderPrevComplete,
		ClozePatterns:            []string{"==[123;;]answer[;;hint]=="},
	}
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	out := s
	out.ClozePatterns = append([]string(nil), s.ClozePatterns...)
	return out
}

// Validate lists the values the settings panel would refuse. The scheduler
// itself accepts all of them.
func Validate(s Settings) []string {
	warnings := make([]string, 0)
	p := s.OsrParams
	if p.BaseEase < MinBaseEase {
		warnings = append(warnings, fmt.Sprintf("baseEase %d is below the minimum of %d", p.BaseEase, MinBaseEase))
	}
	if p.LapsesIntervalChange <= 0 || p.LapsesIntervalChange > 1 {
		warnings = append(warnings, fmt.Sprintf("lapsesIntervalChange %g must be greater than 0 and at most 1", p.LapsesIntervalChange))
	}
	if p.EasyBonus < 1 {
		warnings = append(warnings, fmt.Sprintf("easyBonus %g must be at least 1.0", p.EasyBonus))
	}
	if p.MaximumInterval < 1 {
		warnings = append(warnings, fmt.Sprintf("maximumInterval %d must be at least 1", p.MaximumInterval))
	}
	if p.MaxLinkFactor < 0 || p.MaxLinkFactor > 1 {
		warnings = append(warnings, fmt.Sprintf("maxLinkFactor %g must be between 0 and 1", p.MaxLinkFactor))
	}
	if s.MaxNDaysNotesReviewQueue < 1 {
		warnings = append(warnings, fmt.Sprintf("maxNDaysNotesReviewQueue %d must be at least 1", s.MaxNDaysNotesReviewQueue))
	}
	if _, err := schedulingdomain.NewAlgorithm(s.Algorithm); err != nil {
		warnings = append(warnings, err.Error())
	}
	if !knownDataStore(s.DataStore) {
		warnings = append(warnings, fmt.Sprintf("unsupported data store %q", s.DataStore))
	}
	return warnings
}

func knownDataStore(name schedulingdomain.DataStoreName) bool {
	for _, candidate := range schedulingdomain.DataStoreNames() {
		if candidate == name {
			return true
		}
	}
	return false
}
