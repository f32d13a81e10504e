package domain

// Parameters are the user-tunable algorithm settings. The JSON names match the
// persisted osrParams object.
type Parameters struct {
	BaseEase             int     `json:"baseEase"`
	LapsesIntervalChange float64 `json:"lapsesIntervalChange"`
	EasyBonus            float64 `json:"easyBonus"`
	LoadBalance          bool    `json:"loadBalance"`
	MaximumInterval      int     `json:"maximumInterval"`
	MaxLinkFactor        float64 `json:"maxLinkFactor"`
}

func DefaultParameters() Parameters {
	return Parameters{
		BaseEase:             250,
		LapsesIntervalChange: 0.5,
		EasyBonus:            1.3,
		LoadBalance:          true,
		MaximumInterval:      36525,
		MaxLinkFactor:        1.0,
	}
}

// Policy constants. They are not user-configurable.
const (
	InitialInterval  = 1
	LapseEasePenalty = 20
	HardEasePenalty  = 15
	EasyEaseBonus    = 20
)
