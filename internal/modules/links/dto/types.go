package dto

type AddLinkInput struct {
	FromID string
	ToID   string
	Weight float64
}

type LinkOutput struct {
	FromID string  `json:"from_id"`
	ToID   string  `json:"to_id"`
	Weight float64 `json:"weight"`
}
