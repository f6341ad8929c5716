package domain

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleMember UserRole = "MEMBER"
)

// User is a club member with a prepaid wallet. Balance may go negative;
// overdraft is settled out of band.
type User struct {
	ID             string    `firestore:"-" json:"id"`
	Name           string    `firestore:"name" json:"name"`
	BalanceCents   int64     `firestore:"balanceCents" json:"balance_cents"`
	CredentialHash string    `firestore:"credentialHash" json:"-"`
	Role           UserRole  `firestore:"role" json:"role"`
	RegularDays    []string  `firestore:"regularDays" json:"regular_days,omitempty"`
	CreatedOn      time.Time `firestore:"createdOn,serverTimestamp" json:"created_on"`
}
