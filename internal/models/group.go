package models

// Group represents a named set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates").
	Name string `json:"name"`

	// Members is the group's membership list, with user details joined in.
	Members []Member `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// Member represents one user's membership in a group.
// Unique per (GroupID, UserID); carries no role semantics.
type Member struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`

	// JoinedAt is the Unix timestamp when the membership was created.
	JoinedAt int64 `json:"joinedAt"`

	// Name and Email are populated from the users table on reads.
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
