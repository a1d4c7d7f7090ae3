package request

type CreateSeatingPlanRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	NumRows     int    `json:"num_rows" validate:"gte=1,lte=26"`
	SeatsPerRow int    `json:"seats_per_row" validate:"gte=1"`
}
