package broadcast

import "github.com/cyberzid/feed/internal/domain"

type EventType string

const (
	EventTypeNewPost     EventType = "new_post"
	EventTypePostLiked   EventType = "post_liked"
	EventTypePostDeleted EventType = "post_deleted"
	EventTypeNewMessage  EventType = "new_message"
)

// Event is the frame pushed to every live connection: one completed domain
// mutation, tagged by type. Events are immutable once constructed.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

type PostLikedData struct {
	PostId     int `json:"post_id"`
	LikesCount int `json:"likes_count"`
}

type PostDeletedData struct {
	PostId int `json:"post_id"`
}

func NewPostEvent(post domain.Post) Event {
	return Event{Type: EventTypeNewPost, Data: post}
}

func PostLikedEvent(postId int, likesCount int) Event {
	return Event{Type: EventTypePostLiked, Data: PostLikedData{PostId: postId, LikesCount: likesCount}}
}

func PostDeletedEvent(postId int) Event {
	return Event{Type: EventTypePostDeleted, Data: PostDeletedData{PostId: postId}}
}

func NewMessageEvent(message domain.DirectMessage) Event {
	return Event{Type: EventTypeNewMessage, Data: message}
}
