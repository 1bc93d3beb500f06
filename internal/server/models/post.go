package models

import "time"

// Post is a top-level forum post. DateTime is supplied by the client.
type Post struct {
	ID       string    `json:"postid"`
	UserID   string    `json:"userid"`
	Body     string    `json:"post"`
	DateTime time.Time `json:"datetime"`
}

// SubPost is a reply to a Post.
type SubPost struct {
	ID       string    `json:"subpostid"`
	PostID   string    `json:"postid"`
	UserID   string    `json:"userid"`
	Body     string    `json:"post"`
	DateTime time.Time `json:"datetime"`
}

// PostNode is a post together with its replies in retrieval order.
type PostNode struct {
	Post
	Replies []SubPost `json:"replies"`
}

// PostTree maps post ID to the post and its replies. It is assembled on
// every read and never stored.
type PostTree map[string]*PostNode
