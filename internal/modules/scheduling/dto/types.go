package dto

import "time"

type ReviewInput struct {
	ItemID   string
	Response string
}

type ReviewOutput struct {
	ItemID      string    `json:"item_id"`
	Response    string    `json:"response"`
	Ease        int       `json:"ease"`
	Interval    int       `json:"interval"`
	Due         time.Time `json:"due"`
	Repetitions int       `json:"repetitions"`
	Lapses      int       `json:"lapses"`
	New         bool      `json:"new"`
}

type StateOutput struct {
	ItemID       string    `json:"item_id"`
	Ease         int       `json:"ease"`
	Interval     int       `json:"interval"`
	Due          time.Time `json:"due"`
	Repetitions  int       `json:"repetitions"`
	Lapses       int       `json:"lapses"`
	LastReviewed time.Time `json:"last_reviewed"`
}

type PreviewOption struct {
	Response string    `json:"response"`
	Ease     int       `json:"ease"`
	Interval int       `json:"interval"`
	Due      time.Time `json:"due"`
}

type PreviewOutput struct {
	ItemID  string          `json:"item_id"`
	New     bool            `json:"new"`
	Options []PreviewOption `json:"options"`
}

// DueInput selects items due on or before Until. When Until is zero it is
// today plus Days.
type DueInput struct {
	Until time.Time
	Days  int
	Limit int
}
