package domain

import "time"

type User struct {
	Id           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Avatar       string    `json:"avatar"`
	Bio          string    `json:"bio"`
	CreateTime   time.Time `json:"created_at"`
}

// Post carries the author's username, full name and avatar denormalized at
// creation time. A later profile update does not propagate to existing posts.
type Post struct {
	Id            int       `json:"id"`
	UserId        int       `json:"user_id"`
	Content       string    `json:"content"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreateTime    time.Time `json:"created_at"`
	Username      string    `json:"username"`
	FullName      string    `json:"full_name"`
	Avatar        string    `json:"avatar"`
}

type DirectMessage struct {
	Id         int       `json:"id"`
	SenderId   int       `json:"sender_id"`
	ReceiverId int       `json:"receiver_id"`
	Content    string    `json:"content"`
	CreateTime time.Time `json:"created_at"`
	Read       bool      `json:"read"`
}
