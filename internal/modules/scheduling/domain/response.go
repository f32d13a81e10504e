package domain

import (
	"fmt"
	"strings"

	apperrors "srs/internal/platform/errors"
)

// Response is a review outcome. The set is closed and ordered from worst to best
// recall; the first four are lapses.
type Response int

const (
	Blackout Response = iota
	Incorrect
	IncorrectEasy
	Again
	Hard
	Good
	Easy
)

var responseNames = [...]string{
	Blackout:      "blackout",
	Incorrect:     "incorrect",
	IncorrectEasy: "incorrect-easy",
	Again:         "again",
	Hard:          "hard",
	Good:          "good",
	Easy:          "easy",
}

func Responses() []Response {
	return []Response{Blackout, Incorrect, IncorrectEasy, Again, Hard, Good, Easy}
}

// FlashcardResponses are the four buttons shown when reviewing a single card.
func FlashcardResponses() []Response {
	return []Response{Again, Hard, Good, Easy}
}

func (r Response) Valid() bool {
	return r >= Blackout && r <= Easy
}

func (r Response) IsLapse() bool {
	return r.Valid() && r <= Again
}

func (r Response) String() string {
	if !r.Valid() {
		return fmt.Sprintf("response(%d)", int(r))
	}
	return responseNames[r]
}

func ParseResponse(raw string) (Response, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.NewReplacer("_", "-", " ", "-").Replace(name)
	switch name {
	case "forgot":
		return Again, nil
	case "incorrecteasy":
		return IncorrectEasy, nil
	}
	for r, candidate := range responseNames {
		if candidate == name {
			return Response(r), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown response %q", apperrors.ErrInvalidInput, raw)
}
