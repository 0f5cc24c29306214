package dto

type BalanceResponse struct {
	Balance float64 `json:"balance"`
}

type UpdateBalanceRequest struct {
	Balance *float64 `json:"balance" binding:"required"`
}

type UpdateBalanceResponse struct {
	Message string  `json:"message"`
	Balance float64 `json:"balance"`
}
