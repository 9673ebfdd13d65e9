package request

type TransitionOrderRequest struct {
	Status string `json:"status" binding:"required"`
}
