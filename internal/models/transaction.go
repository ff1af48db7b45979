package models

import "strings"

// Transaction is a server-side rental record. Status transitions happen on the
// server only; this client reads them and never computes them locally.
type Transaction struct {
	ID          int64  `json:"id_transaction"`
	VehicleName string `json:"vehicle_name"`
	Brand       string `json:"brand"`
	Status      string `json:"transaction_status"`
	Date        string `json:"transaction_date"`
	TotalPrice  int64  `json:"total_price"`
	ImagePath   string `json:"image_path"`
}

// Cancellable reports whether the transaction still offers the user-initiated
// cancellation action. Only IN_REVIEW does.
func (t Transaction) Cancellable() bool {
	return strings.EqualFold(t.Status, TransactionInReview)
}

// TransactionDetail carries the customer snapshot shown while cancelling.
type TransactionDetail struct {
	Customer struct {
		Name   string `json:"name"`
		IDCard string `json:"id_card"`
	} `json:"customer"`
	Date    string `json:"transaction_date"`
	Vehicle struct {
		Name string `json:"vehicle_name"`
	} `json:"vehicle"`
}

// CreateTransactionRequest is the booking submission payload.
type CreateTransactionRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	CustomerID     string `json:"id_customer"`
	VehicleID      int64  `json:"id_vehicle"`
	RenterName     string `json:"name"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	PhoneNumber    string `json:"phone_number"`
	IDCardNumber   string `json:"id_card_number"`
	RentalDate     string `json:"rental_date"`
	ReturnDate     string `json:"return_date"`
}

// PaymentRequest is the second half of the booking commit.
type PaymentRequest struct {
	TransactionID int64  `json:"id_transaction"`
	Method        string `json:"payment_method"`
	Total         int64  `json:"payment_total"`
}
