package dto

import "time"

// ListTransactionsParams holds pagination parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
	Since     *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ListTransactionsResponse is a page of transactions, newest first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
