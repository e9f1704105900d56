package dto

// ItemRequest is the shared body for item create and update. The owner is
// never part of the payload; it always comes from the verified session.
type ItemRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
