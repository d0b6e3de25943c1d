package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostContent is the text of a community post.
type PostContent struct {
	Header string `bson:"header" json:"header"`
	Body   string `bson:"body" json:"body"`
}

// Post is a message a member shares with their community.
type Post struct {
	ObjectID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PostID        string             `bson:"post_id" json:"post_id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	UserName      string             `bson:"user_name" json:"user_name"`
	CommunityArea string             `bson:"community_area" json:"community_area"`
	PostContent   PostContent        `bson:"post_content" json:"post_content"`
	PostDate      string             `bson:"post_date" json:"post_date"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// AddPostRequest represents a request to publish a post
type AddPostRequest struct {
	UserID        string       `json:"user_id"`
	CommunityArea string       `json:"community_area"`
	PostContent   *PostContent `json:"post_content"`
	PostDate      string       `json:"post_date"`
}

// Complete reports whether every required field is present.
func (r *AddPostRequest) Complete() bool {
	return r.UserID != "" &&
		r.CommunityArea != "" &&
		r.PostDate != "" &&
		r.PostContent != nil &&
		strings.TrimSpace(r.PostContent.Header+r.PostContent.Body) != ""
}

// DeletePostRequest represents a request to remove a post
type DeletePostRequest struct {
	PostID string `json:"post_id"`
}
