package model

// Account represents a registered user.
type Account struct {
	ID       int    `json:"account_id" db:"account_id"`
	Username string `json:"username" db:"username"`
	Password string `json:"password" db:"password"`
}

// Message represents a message posted by an account.
type Message struct {
	ID       int    `json:"message_id" db:"message_id"`
	PostedBy int    `json:"posted_by" db:"posted_by"`
	Text     string `json:"message_text" db:"message_text"`
	PostedAt int64  `json:"time_posted_epoch" db:"time_posted_epoch"`
}
