package xapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/leofalp/aigotools/core/paginate"
)

const (
	defaultMaxResults = 10
	maxTweetLength    = 280

	timelinePageMax  = 100
	timelinePageMin  = 5
	searchPageMax    = 100
	searchPageMin    = 10
	followersPageMax = 1000
)

// listing describes one paginated X endpoint.
type listing struct {
	path       string
	query      url.Values
	tokenParam string
	minSize    int
}

// source pages through l. Pages smaller than the endpoint minimum are
// requested at the minimum and trimmed by the aggregator.
func (c *Client) source(l listing) paginate.Source[json.RawMessage] {
	source := paginate.SourceFunc[json.RawMessage](func(ctx context.Context, req paginate.PageRequest) (*paginate.Page[json.RawMessage], error) {
		q := url.Values{}
		for k, v := range l.query {
			q[k] = v
		}
		q.Set("max_results", strconv.Itoa(max(req.Size, l.minSize)))
		if req.Token != "" {
			q.Set(l.tokenParam, req.Token)
		}

		body, err := c.do(ctx, http.MethodGet, l.path, q, nil)
		if err != nil {
			return nil, err
		}

		data := gjson.GetBytes(body, "data").Array()
		items := make([]json.RawMessage, 0, len(data))
		for _, d := range data {
			items = append(items, json.RawMessage(d.Raw))
		}
		return &paginate.Page[json.RawMessage]{
			Items:     items,
			NextToken: gjson.GetBytes(body, "meta.next_token").String(),
		}, nil
	})
	if c.retry == nil {
		return source
	}
	return paginate.WithRetry[json.RawMessage](source, *c.retry)
}

func list[T any](ctx context.Context, c *Client, name string, l listing, total, pageMax int, mapper paginate.Mapper[json.RawMessage, T]) ([]T, error) {
	if total <= 0 {
		total = defaultMaxResults
	}
	res, err := paginate.Aggregate(ctx, c.source(l), mapper, paginate.Request{
		TargetCount: total,
		PageSizeCap: pageMax,
	}, c.aggregateOptions(name)...)
	if err != nil {
		return nil, err
	}
	if res.Records == nil {
		return []T{}, nil
	}
	return res.Records, nil
}

// CreateTweet posts text as the authenticated user.
func (c *Client) CreateTweet(ctx context.Context, in TweetInput) (Tweet, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return Tweet{}, fmt.Errorf("text is required")
	}
	if n := len([]rune(text)); n > maxTweetLength {
		return Tweet{}, fmt.Errorf("tweet is %d characters long, the limit is %d", n, maxTweetLength)
	}

	body, err := c.do(ctx, http.MethodPost, "/tweets", nil, map[string]string{"text": text})
	if err != nil {
		return Tweet{}, fmt.Errorf("error creating tweet: %w", err)
	}
	return toTweet(json.RawMessage(gjson.GetBytes(body, "data").Raw))
}

// DeleteTweet deletes one of the authenticated user's tweets.
func (c *Client) DeleteTweet(ctx context.Context, in TweetIDInput) (DeleteOutput, error) {
	if in.TweetID == "" {
		return DeleteOutput{}, fmt.Errorf("tweet_id is required")
	}
	body, err := c.do(ctx, http.MethodDelete, "/tweets/"+url.PathEscape(in.TweetID), nil, nil)
	if err != nil {
		return DeleteOutput{}, fmt.Errorf("error deleting tweet %s: %w", in.TweetID, err)
	}
	return DeleteOutput{TweetID: in.TweetID, Deleted: gjson.GetBytes(body, "data.deleted").Bool()}, nil
}

// action runs a POST/DELETE pair on one of the acting user's relations
// (likes, retweets, following) and returns the response data.
func (c *Client) action(ctx context.Context, method, relation, field, target string) (gjson.Result, error) {
	if target == "" {
		return gjson.Result{}, fmt.Errorf("%s is required", field)
	}
	me, err := c.me(ctx)
	if err != nil {
		return gjson.Result{}, err
	}

	path := "/users/" + url.PathEscape(me) + "/" + relation
	var payload any
	if method == http.MethodPost {
		payload = map[string]string{field: target}
	} else {
		path += "/" + url.PathEscape(target)
	}

	body, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("error updating %s for %s: %w", relation, target, err)
	}
	return gjson.GetBytes(body, "data"), nil
}

// Like likes a tweet as the authenticated user.
func (c *Client) Like(ctx context.Context, in TweetIDInput) (LikeOutput, error) {
	data, err := c.action(ctx, http.MethodPost, "likes", "tweet_id", in.TweetID)
	if err != nil {
		return LikeOutput{}, err
	}
	return LikeOutput{TweetID: in.TweetID, Liked: data.Get("liked").Bool()}, nil
}

// Unlike removes the authenticated user's like from a tweet.
func (c *Client) Unlike(ctx context.Context, in TweetIDInput) (LikeOutput, error) {
	data, err := c.action(ctx, http.MethodDelete, "likes", "tweet_id", in.TweetID)
	if err != nil {
		return LikeOutput{}, err
	}
	return LikeOutput{TweetID: in.TweetID, Liked: data.Get("liked").Bool()}, nil
}

// Retweet reposts a tweet as the authenticated user.
func (c *Client) Retweet(ctx context.Context, in TweetIDInput) (RetweetOutput, error) {
	data, err := c.action(ctx, http.MethodPost, "retweets", "tweet_id", in.TweetID)
	if err != nil {
		return RetweetOutput{}, err
	}
	return RetweetOutput{TweetID: in.TweetID, Retweeted: data.Get("retweeted").Bool()}, nil
}

// Unretweet undoes a repost by the authenticated user.
func (c *Client) Unretweet(ctx context.Context, in TweetIDInput) (RetweetOutput, error) {
	data, err := c.action(ctx, http.MethodDelete, "retweets", "tweet_id", in.TweetID)
	if err != nil {
		return RetweetOutput{}, err
	}
	return RetweetOutput{TweetID: in.TweetID, Retweeted: data.Get("retweeted").Bool()}, nil
}

// Follow follows a user. Protected accounts answer with pending_follow.
func (c *Client) Follow(ctx context.Context, in UserIDInput) (FollowOutput, error) {
	data, err := c.action(ctx, http.MethodPost, "following", "target_user_id", in.UserID)
	if err != nil {
		return FollowOutput{}, err
	}
	return FollowOutput{
		UserID:        in.UserID,
		Following:     data.Get("following").Bool(),
		PendingFollow: data.Get("pending_follow").Bool(),
	}, nil
}

// Unfollow stops following a user.
func (c *Client) Unfollow(ctx context.Context, in UserIDInput) (FollowOutput, error) {
	data, err := c.action(ctx, http.MethodDelete, "following", "target_user_id", in.UserID)
	if err != nil {
		return FollowOutput{}, err
	}
	return FollowOutput{UserID: in.UserID, Following: data.Get("following").Bool()}, nil
}

// GetUserDetails looks a user up by handle.
func (c *Client) GetUserDetails(ctx context.Context, in UsernameInput) (User, error) {
	username := strings.TrimPrefix(strings.TrimSpace(in.Username), "@")
	if username == "" {
		return User{}, fmt.Errorf("username is required")
	}
	body, err := c.do(ctx, http.MethodGet, "/users/by/username/"+url.PathEscape(username), nil, nil)
	if err != nil {
		return User{}, fmt.Errorf("error looking up user %s: %w", username, err)
	}
	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		if msg := errorMessage(body); msg != "" {
			return User{}, fmt.Errorf("user %s not found: %s", username, msg)
		}
		return User{}, fmt.Errorf("user %s not found", username)
	}
	return toUser(json.RawMessage(data.Raw))
}

// GetUserTimeline returns a user's most recent tweets.
func (c *Client) GetUserTimeline(ctx context.Context, in TimelineInput) (TweetsOutput, error) {
	if in.UserID == "" {
		return TweetsOutput{}, fmt.Errorf("user_id is required")
	}
	tweets, err := list(ctx, c, "x.timeline", listing{
		path:       "/users/" + url.PathEscape(in.UserID) + "/tweets",
		query:      url.Values{"tweet.fields": {"created_at,author_id"}},
		tokenParam: "pagination_token",
		minSize:    timelinePageMin,
	}, in.MaxResults, timelinePageMax, toTweet)
	if err != nil {
		return TweetsOutput{}, fmt.Errorf("error fetching timeline of %s: %w", in.UserID, err)
	}
	return TweetsOutput{Count: len(tweets), Tweets: tweets}, nil
}

// SearchTweets searches tweets from the last seven days.
func (c *Client) SearchTweets(ctx context.Context, in SearchInput) (TweetsOutput, error) {
	if strings.TrimSpace(in.Query) == "" {
		return TweetsOutput{}, fmt.Errorf("query is required")
	}
	tweets, err := list(ctx, c, "x.search", listing{
		path:       "/tweets/search/recent",
		query:      url.Values{"query": {in.Query}, "tweet.fields": {"created_at,author_id"}},
		tokenParam: "next_token",
		minSize:    searchPageMin,
	}, in.MaxResults, searchPageMax, toTweet)
	if err != nil {
		return TweetsOutput{}, fmt.Errorf("error searching tweets: %w", err)
	}
	return TweetsOutput{Count: len(tweets), Tweets: tweets}, nil
}

// GetFollowers lists the accounts following a user.
func (c *Client) GetFollowers(ctx context.Context, in FollowersInput) (FollowersOutput, error) {
	if in.UserID == "" {
		return FollowersOutput{}, fmt.Errorf("user_id is required")
	}
	users, err := list(ctx, c, "x.followers", listing{
		path:       "/users/" + url.PathEscape(in.UserID) + "/followers",
		tokenParam: "pagination_token",
		minSize:    1,
	}, in.MaxResults, followersPageMax, toUser)
	if err != nil {
		return FollowersOutput{}, fmt.Errorf("error fetching followers of %s: %w", in.UserID, err)
	}
	return FollowersOutput{Count: len(users), Followers: users}, nil
}
