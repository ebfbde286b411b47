package domain

import "time"

// ShipmentRequest is a shipping request owned by exactly one user.
type ShipmentRequest struct {
	ID          int64     `db:"id" json:"id"`
	ProductName string    `db:"product_name" json:"product_name"`
	Weight      float64   `db:"weight" json:"weight"`
	Value       float64   `db:"value" json:"value"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	UserID      int64     `db:"user_id" json:"user_id"`
}

// OwnedBy reports whether the request belongs to the given user id.
func (s *ShipmentRequest) OwnedBy(userID int64) bool {
	return s != nil && s.UserID == userID
}
