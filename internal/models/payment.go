package models

import "time"

type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "Pending"
	TransactionApproved TransactionStatus = "Approved"
	TransactionRejected TransactionStatus = "Rejected"
)

type Transaction struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	UserName  string            `json:"userName,omitempty"`
	TxID      string            `json:"txId"`
	AmountUSD float64           `json:"amountUsd"`
	AmountIRR float64           `json:"amountIrr"`
	Network   string            `json:"network"`
	Months    int               `json:"months"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}
