package models

import "time"

// User mirrors an account provisioned by Clerk; the primary key is the Clerk
// user id, never generated locally.
type User struct {
	ID               string     `gorm:"column:id;type:text;primaryKey" json:"id"`
	Email            string     `gorm:"column:email;type:text;not null" json:"email"`
	IsSubscribed     bool       `gorm:"column:is_subscribed;not null;default:false" json:"isSubscribed"`
	SubscriptionEnds *time.Time `gorm:"column:subscription_ends;type:timestamptz" json:"subscriptionEnds"`
	CreatedAt        time.Time  `gorm:"column:created_at;type:timestamptz" json:"createdAt"`

	Todos []Todo `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string { return "users" }

// SubscriptionStatus is the reconciled view of a user's subscription.
type SubscriptionStatus struct {
	IsSubscribed     bool       `json:"isSubscribed"`
	SubscriptionEnds *time.Time `json:"subscriptionEnds"`
}
