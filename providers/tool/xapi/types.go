package xapi

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

type TweetInput struct {
	Text string `json:"text" jsonschema:"description=Text of the tweet (at most 280 characters),required"`
}

type TweetIDInput struct {
	TweetID string `json:"tweet_id" jsonschema:"description=ID of the tweet,required"`
}

type UserIDInput struct {
	UserID string `json:"user_id" jsonschema:"description=Numeric ID of the target user,required"`
}

type UsernameInput struct {
	Username string `json:"username" jsonschema:"description=Handle of the user without the leading @,required"`
}

type TimelineInput struct {
	UserID     string `json:"user_id" jsonschema:"description=Numeric ID of the user,required"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Number of tweets to return (default 10),minimum=1"`
}

type SearchInput struct {
	Query      string `json:"query" jsonschema:"description=Search query using X search operators,required"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Number of tweets to return (default 10),minimum=1"`
}

type FollowersInput struct {
	UserID     string `json:"user_id" jsonschema:"description=Numeric ID of the user,required"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Number of followers to return (default 10),minimum=1"`
}

type Tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"author_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type TweetsOutput struct {
	Count  int     `json:"count"`
	Tweets []Tweet `json:"tweets"`
}

type FollowersOutput struct {
	Count     int    `json:"count"`
	Followers []User `json:"followers"`
}

type DeleteOutput struct {
	TweetID string `json:"tweet_id"`
	Deleted bool   `json:"deleted"`
}

type LikeOutput struct {
	TweetID string `json:"tweet_id"`
	Liked   bool   `json:"liked"`
}

type RetweetOutput struct {
	TweetID   string `json:"tweet_id"`
	Retweeted bool   `json:"retweeted"`
}

type FollowOutput struct {
	UserID        string `json:"user_id"`
	Following     bool   `json:"following"`
	PendingFollow bool   `json:"pending_follow,omitempty"`
}

var (
	errNoTweetID = errors.New("tweet has no id")
	errNoUserID  = errors.New("user has no id")
)

func toTweet(raw json.RawMessage) (Tweet, error) {
	r := gjson.ParseBytes(raw)
	t := Tweet{
		ID:        r.Get("id").String(),
		Text:      r.Get("text").String(),
		AuthorID:  r.Get("author_id").String(),
		CreatedAt: r.Get("created_at").String(),
	}
	if t.ID == "" {
		return Tweet{}, errNoTweetID
	}
	return t, nil
}

func toUser(raw json.RawMessage) (User, error) {
	r := gjson.ParseBytes(raw)
	u := User{
		ID:       r.Get("id").String(),
		Name:     r.Get("name").String(),
		Username: r.Get("username").String(),
	}
	if u.ID == "" {
		return User{}, errNoUserID
	}
	return u, nil
}
