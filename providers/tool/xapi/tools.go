package xapi

import (
	"net/http"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/providers/tool"
)

// X bills per request on the pay-per-use plans; figures are per call.
var (
	writeMetrics = cost.ToolMetrics{
		Amount:                  0.01,
		Currency:                "USD",
		CostDescription:         "per write request",
		Accuracy:                1.0,
		AverageDurationInMillis: 400,
	}
	readMetrics = cost.ToolMetrics{
		Amount:                  0.005,
		Currency:                "USD",
		CostDescription:         "per read request",
		Accuracy:                0.95,
		AverageDurationInMillis: 500,
	}
)

// NewTools returns every X tool. httpClient must sign requests for a user
// context, see [New].
func NewTools(httpClient *http.Client, opts ...Option) []tool.GenericTool {
	c := New(httpClient, opts...)
	return []tool.GenericTool{
		tool.NewTool[TweetInput, Tweet](
			"XCreateTweet",
			c.CreateTweet,
			tool.WithDescription("Post a tweet as the authenticated user. Returns the new tweet id."),
			tool.WithMetrics(writeMetrics),
		),
		tool.NewTool[TweetIDInput, DeleteOutput](
			"XDeleteTweet",
			c.DeleteTweet,
			tool.WithDescription("Delete a tweet of the authenticated user by id."),
			tool.WithMetrics(writeMetrics),
		),
		tool.NewTool[TweetIDInput, LikeOutput](
			"XLikeTweet",
			c.Like,
			tool.WithDescription("Like a tweet by id."),
			tool.WithMetrics(writeMetrics),
		),
		tool.NewTool[TweetIDInput, LikeOutput](
			"XUnlikeTweet",
			c.Unlike,
			tool.WithDescription("Remove a like from a tweet by id."),
			tool.WithMetrics(writeMetrics),
		),
		tool.NewTool[TweetIDInput, RetweetOutput](
			"XRetweet",
			c.Retweet,
			tool.WithDescription("Retweet a tweet by id."),
			tool.WithMetrics(writeMetrics),
		),
		tool.NewTool[TweetIDInput, RetweetOutput](
			"XUnretweet",
			c.Unretweet,
			tool.WithDescription("Undo a retweet by the original tweet id."),
			tool.WithMetrics(writeMetrics),
		),
		tool.NewTool[UserIDInput, FollowOutput](
			"XFollowUser",
			c.Follow,
			tool.WithDescription("Follow a user by numeric id. Use XGetUserDetails to resolve a handle first."),
			tool.WithMetrics(writeMetrics),
		),
		tool.NewTool[UserIDInput, FollowOutput](
			"XUnfollowUser",
			c.Unfollow,
			tool.WithDescription("Unfollow a user by numeric id."),
			tool.WithMetrics(writeMetrics),
		),
		tool.NewTool[UsernameInput, User](
			"XGetUserDetails",
			c.GetUserDetails,
			tool.WithDescription("Look up a user by handle. Returns id, name and username."),
			tool.WithMetrics(readMetrics),
		),
		tool.NewTool[TimelineInput, TweetsOutput](
			"XGetUserTimeline",
			c.GetUserTimeline,
			tool.WithDescription("Get the most recent tweets of a user by numeric id."),
			tool.WithMetrics(readMetrics),
		),
		tool.NewTool[SearchInput, TweetsOutput](
			"XSearchTweets",
			c.SearchTweets,
			tool.WithDescription("Search tweets from the last seven days."),
			tool.WithMetrics(readMetrics),
		),
		tool.NewTool[FollowersInput, FollowersOutput](
			"XGetFollowers",
			c.GetFollowers,
			tool.WithDescription("List the followers of a user by numeric id. Returns ids, names and usernames."),
			tool.WithMetrics(readMetrics),
		),
	}
}
