package xapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/internal/utils"
)

// fakeX serves a small slice of the v2 API. Listings hold total items and
// use the offset as continuation token.
type fakeX struct {
	total int

	mu       sync.Mutex
	meCalls  int
	requests []*http.Request
	bodies   map[string]map[string]string
	sizes    []string
	status   int
}

func newFakeX(t *testing.T, total int) (*fakeX, *Client) {
	t.Helper()
	f := &fakeX{total: total, bodies: map[string]map[string]string{}}
	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)
	return f, New(server.Client(), WithBaseURL(server.URL+"/2"))
}

func (f *fakeX) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	status := f.status
	if r.Body != nil && r.Method == http.MethodPost {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.bodies[r.URL.Path] = body
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		fmt.Fprint(w, `{"title":"Too Many Requests","detail":"Too Many Requests","type":"about:blank","status":429}`)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/2")
	switch {
	case path == "/users/me":
		f.mu.Lock()
		f.meCalls++
		f.mu.Unlock()
		fmt.Fprint(w, `{"data":{"id":"42","name":"Me","username":"me"}}`)
	case path == "/tweets" && r.Method == http.MethodPost:
		fmt.Fprintf(w, `{"data":{"id":"1001","text":%q}}`, f.bodies[r.URL.Path]["text"])
	case strings.HasPrefix(path, "/tweets/") && r.Method == http.MethodDelete && path != "/tweets/search/recent":
		fmt.Fprint(w, `{"data":{"deleted":true}}`)
	case strings.HasPrefix(path, "/users/42/likes"):
		fmt.Fprintf(w, `{"data":{"liked":%t}}`, r.Method == http.MethodPost)
	case strings.HasPrefix(path, "/users/42/retweets"):
		fmt.Fprintf(w, `{"data":{"retweeted":%t}}`, r.Method == http.MethodPost)
	case strings.HasPrefix(path, "/users/42/following"):
		fmt.Fprintf(w, `{"data":{"following":%t,"pending_follow":false}}`, r.Method == http.MethodPost)
	case path == "/users/by/username/jack":
		fmt.Fprint(w, `{"data":{"id":"12","name":"jack","username":"jack"}}`)
	case strings.HasPrefix(path, "/users/by/username/"):
		fmt.Fprint(w, `{"errors":[{"value":"nobody","detail":"Could not find user with username: [nobody].","title":"Not Found Error"}]}`)
	case path == "/users/12/tweets", path == "/tweets/search/recent":
		f.page(w, r, "pagination_token", "next_token", func(i int) string {
			return fmt.Sprintf(`{"id":"t%d","text":"tweet %d","author_id":"12"}`, i, i)
		})
	case path == "/users/12/followers":
		f.page(w, r, "pagination_token", "next_token", func(i int) string {
			return fmt.Sprintf(`{"id":"u%d","name":"User %d","username":"user%d"}`, i, i, i)
		})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeX) page(w http.ResponseWriter, r *http.Request, tokenParam, nextParam string, item func(int) string) {
	q := r.URL.Query()
	size, _ := strconv.Atoi(q.Get("max_results"))
	f.mu.Lock()
	f.sizes = append(f.sizes, q.Get("max_results"))
	f.mu.Unlock()

	if r.URL.Path == "/2/tweets/search/recent" {
		tokenParam = "next_token"
	}
	offset, _ := strconv.Atoi(q.Get(tokenParam))
	end := min(offset+size, f.total)

	items := make([]string, 0, size)
	for i := offset; i < end; i++ {
		items = append(items, item(i+1))
	}
	meta := fmt.Sprintf(`{"result_count":%d}`, len(items))
	if end < f.total {
		meta = fmt.Sprintf(`{"result_count":%d,%q:"%d"}`, len(items), nextParam, end)
	}
	fmt.Fprintf(w, `{"data":[%s],"meta":%s}`, strings.Join(items, ","), meta)
}

func TestCreateTweet(t *testing.T) {
	f, c := newFakeX(t, 0)

	tweet, err := c.CreateTweet(context.Background(), TweetInput{Text: "  hello world  "})
	require.NoError(t, err)
	assert.Equal(t, "1001", tweet.ID)
	assert.Equal(t, "hello world", tweet.Text)
	assert.Equal(t, "hello world", f.bodies["/2/tweets"]["text"])
}

func TestCreateTweetValidation(t *testing.T) {
	f, c := newFakeX(t, 0)

	_, err := c.CreateTweet(context.Background(), TweetInput{Text: " "})
	assert.EqualError(t, err, "text is required")

	_, err = c.CreateTweet(context.Background(), TweetInput{Text: strings.Repeat("é", 281)})
	assert.EqualError(t, err, "tweet is 281 characters long, the limit is 280")

	assert.Empty(t, f.requests)
}

func TestDeleteTweet(t *testing.T) {
	f, c := newFakeX(t, 0)

	out, err := c.DeleteTweet(context.Background(), TweetIDInput{TweetID: "1001"})
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	require.Len(t, f.requests, 1)
	assert.Equal(t, http.MethodDelete, f.requests[0].Method)
	assert.Equal(t, "/2/tweets/1001", f.requests[0].URL.Path)
}

func TestRelationActionsResolveUserOnce(t *testing.T) {
	f, c := newFakeX(t, 0)
	ctx := context.Background()

	like, err := c.Like(ctx, TweetIDInput{TweetID: "7"})
	require.NoError(t, err)
	assert.True(t, like.Liked)
	assert.Equal(t, "7", f.bodies["/2/users/42/likes"]["tweet_id"])

	unlike, err := c.Unlike(ctx, TweetIDInput{TweetID: "7"})
	require.NoError(t, err)
	assert.False(t, unlike.Liked)

	rt, err := c.Retweet(ctx, TweetIDInput{TweetID: "8"})
	require.NoError(t, err)
	assert.True(t, rt.Retweeted)

	unrt, err := c.Unretweet(ctx, TweetIDInput{TweetID: "8"})
	require.NoError(t, err)
	assert.False(t, unrt.Retweeted)

	follow, err := c.Follow(ctx, UserIDInput{UserID: "12"})
	require.NoError(t, err)
	assert.True(t, follow.Following)
	assert.Equal(t, "12", f.bodies["/2/users/42/following"]["target_user_id"])

	unfollow, err := c.Unfollow(ctx, UserIDInput{UserID: "12"})
	require.NoError(t, err)
	assert.False(t, unfollow.Following)

	assert.Equal(t, 1, f.meCalls)

	var paths []string
	for _, r := range f.requests {
		paths = append(paths, r.Method+" "+r.URL.Path)
	}
	assert.Equal(t, []string{
		"GET /2/users/me",
		"POST /2/users/42/likes",
		"DELETE /2/users/42/likes/7",
		"POST /2/users/42/retweets",
		"DELETE /2/users/42/retweets/8",
		"POST /2/users/42/following",
		"DELETE /2/users/42/following/12",
	}, paths)
}

func TestWithUserIDSkipsLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/99/likes", r.URL.Path)
		fmt.Fprint(w, `{"data":{"liked":true}}`)
	}))
	defer server.Close()

	c := New(server.Client(), WithBaseURL(server.URL+"/2"), WithUserID("99"))
	out, err := c.Like(context.Background(), TweetIDInput{TweetID: "7"})
	require.NoError(t, err)
	assert.True(t, out.Liked)
}

func TestActionRequiresTarget(t *testing.T) {
	_, c := newFakeX(t, 0)
	_, err := c.Follow(context.Background(), UserIDInput{})
	assert.EqualError(t, err, "target_user_id is required")
}

func TestGetUserDetails(t *testing.T) {
	_, c := newFakeX(t, 0)

	user, err := c.GetUserDetails(context.Background(), UsernameInput{Username: "@jack"})
	require.NoError(t, err)
	assert.Equal(t, User{ID: "12", Name: "jack", Username: "jack"}, user)

	_, err = c.GetUserDetails(context.Background(), UsernameInput{Username: "nobody"})
	assert.EqualError(t, err, "user nobody not found: Could not find user with username: [nobody].")
}

func TestGetUserTimelineRaisesSmallPages(t *testing.T) {
	f, c := newFakeX(t, 50)

	out, err := c.GetUserTimeline(context.Background(), TimelineInput{UserID: "12", MaxResults: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, "t3", out.Tweets[2].ID)
	assert.Equal(t, []string{"5"}, f.sizes)
	assert.Equal(t, "created_at,author_id", f.requests[0].URL.Query().Get("tweet.fields"))
}

func TestGetUserTimelinePaginates(t *testing.T) {
	f, c := newFakeX(t, 250)

	out, err := c.GetUserTimeline(context.Background(), TimelineInput{UserID: "12", MaxResults: 230})
	require.NoError(t, err)
	assert.Equal(t, 230, out.Count)
	assert.Equal(t, "t230", out.Tweets[229].ID)
	assert.Equal(t, []string{"100", "100", "30"}, f.sizes)
	assert.Equal(t, "200", f.requests[2].URL.Query().Get("pagination_token"))
}

func TestSearchTweets(t *testing.T) {
	f, c := newFakeX(t, 15)

	out, err := c.SearchTweets(context.Background(), SearchInput{Query: "golang"})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Count)
	assert.Equal(t, "golang", f.requests[0].URL.Query().Get("query"))
	assert.Equal(t, []string{"10"}, f.sizes)

	_, err = c.SearchTweets(context.Background(), SearchInput{})
	assert.EqualError(t, err, "query is required")
}

func TestSearchTweetsUsesNextToken(t *testing.T) {
	f, c := newFakeX(t, 25)

	out, err := c.SearchTweets(context.Background(), SearchInput{Query: "golang", MaxResults: 120})
	require.NoError(t, err)
	assert.Equal(t, 25, out.Count)
	require.Len(t, f.requests, 1, "a short page ends the search")
}

func TestGetFollowers(t *testing.T) {
	f, c := newFakeX(t, 1500)

	out, err := c.GetFollowers(context.Background(), FollowersInput{UserID: "12", MaxResults: 1200})
	require.NoError(t, err)
	assert.Equal(t, 1200, out.Count)
	assert.Equal(t, "user1200", out.Followers[1199].Username)
	assert.Equal(t, []string{"1000", "200"}, f.sizes)
}

func TestGetFollowersEmpty(t *testing.T) {
	_, c := newFakeX(t, 0)

	out, err := c.GetFollowers(context.Background(), FollowersInput{UserID: "12"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.NotNil(t, out.Followers)
}

func TestAPIError(t *testing.T) {
	f, c := newFakeX(t, 10)
	f.status = http.StatusTooManyRequests

	_, err := c.GetUserTimeline(context.Background(), TimelineInput{UserID: "12"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x API error (status 429): Too Many Requests")
	assert.True(t, errors.Is(err, paginate.ErrSourceUnavailable))
	assert.Equal(t, http.StatusTooManyRequests, utils.StatusCodeOf(err))
}

func TestRetryOnRateLimit(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"title":"Too Many Requests"}`)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":"1","text":"a"}],"meta":{"result_count":1}}`)
	}))
	defer server.Close()

	c := New(server.Client(), WithBaseURL(server.URL+"/2"), WithRetry(paginate.RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
	}))
	out, err := c.SearchTweets(context.Background(), SearchInput{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 2, calls)
}

func TestNewTools(t *testing.T) {
	_, c := newFakeX(t, 0)
	tools := NewTools(c.httpClient, WithBaseURL(c.baseURL))
	require.Len(t, tools, 12)

	names := make(map[string]bool)
	for _, tl := range tools {
		names[tl.ToolInfo().Name] = true
	}
	for _, want := range []string{"XCreateTweet", "XGetUserDetails", "XSearchTweets", "XGetFollowers"} {
		assert.True(t, names[want], want)
	}

	lookup := tools[8]
	out, err := lookup.Call(context.Background(), `{"username":"jack"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"12","name":"jack","username":"jack"}`, out)
}

func TestHTTPClientSignsRequests(t *testing.T) {
	_, err := HTTPClient(context.Background(), Credentials{ConsumerKey: "k"})
	require.Error(t, err)

	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"data":{"id":"42"}}`)
	}))
	defer server.Close()

	httpClient, err := HTTPClient(context.Background(), Credentials{
		ConsumerKey:       "ck",
		ConsumerSecret:    "cs",
		AccessToken:       "at",
		AccessTokenSecret: "ats",
	})
	require.NoError(t, err)

	c := New(httpClient, WithBaseURL(server.URL+"/2"))
	id, err := c.me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	assert.True(t, strings.HasPrefix(auth, "OAuth "), auth)
	assert.Contains(t, auth, `oauth_consumer_key="ck"`)
	assert.Contains(t, auth, `oauth_token="at"`)
}
