package notifications

import (
	"encoding/json"
	"time"
)

// Event types published on engagement and post changes.
const (
	EventLikeToggled    = "post_like_toggled"
	EventCommentCreated = "comment_created"
	EventPostPublished  = "post_published"
	EventPostDeleted    = "post_deleted"
)

// Event is the JSON message sent to live feed clients.
type Event struct {
	Type    string    `json:"type"`
	PostID  uint      `json:"postId"`
	UserID  uint      `json:"userId,omitempty"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// NewEvent stamps an event of type typ for postID.
func NewEvent(typ string, postID, userID uint, payload any) Event {
	return Event{Type: typ, PostID: postID, UserID: userID, Payload: payload, At: time.Now().UTC()}
}

func (e Event) encode() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
