package domain

import "time"

// Transaction is one immutable entry in a user's wallet history.
// Amount is positive for a top-up and negative for a deduction or
// session charge. UserName is a snapshot taken at commit time and is
// not kept in sync with later renames.
type Transaction struct {
	ID          string    `firestore:"-" json:"id"`
	UserID      string    `firestore:"userId" json:"user_id"`
	UserName    string    `firestore:"userName" json:"user_name"`
	AmountCents int64     `firestore:"amountCents" json:"amount_cents"`
	Description string    `firestore:"description" json:"description"`
	Timestamp   time.Time `firestore:"timestamp,serverTimestamp" json:"timestamp"`
}
