package dto

// ChatRequest carries a question plus the caller's full current transaction list.
type ChatRequest struct {
	Question     string                `json:"question" binding:"required"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ChatResponse carries the language model's answer.
type ChatResponse struct {
	Response string `json:"response"`
}
