package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// fakeYouTube serves numbered search results and uploads with offset tokens.
type fakeYouTube struct {
	mu       sync.Mutex
	results  int
	total    int64
	noIDAt   int
	requests []url.Values
	paths    []string
}

func (f *fakeYouTube) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := strings.TrimPrefix(r.URL.Path, "/youtube/v3/")
	f.mu.Lock()
	f.requests = append(f.requests, q)
	f.paths = append(f.paths, path)
	f.mu.Unlock()

	var resp map[string]any
	switch path {
	case "search":
		resp = f.page(q, func(i int) map[string]any {
			id := map[string]any{"kind": "youtube#" + q.Get("type")}
			switch q.Get("type") {
			case "channel":
				id["channelId"] = fmt.Sprintf("UC%d", i)
			case "playlist":
				id["playlistId"] = fmt.Sprintf("PL%d", i)
			case "video":
				id["videoId"] = fmt.Sprintf("v%d", i)
			}
			if i == f.noIDAt {
				id = map[string]any{}
			}
			return map[string]any{"id": id, "snippet": map[string]any{
				"title":        fmt.Sprintf("Title %d", i),
				"description":  "desc",
				"channelId":    "UCowner",
				"channelTitle": "Owner",
				"publishedAt":  "2024-01-01T00:00:00Z",
			}}
		})
	case "playlistItems":
		if q.Get("playlistId") != "UUuploads" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		resp = f.page(q, func(i int) map[string]any {
			return map[string]any{"snippet": map[string]any{
				"title":        fmt.Sprintf("Upload %d", i),
				"channelId":    "UCowner",
				"channelTitle": "Owner",
				"publishedAt":  "2024-02-01T00:00:00Z",
				"resourceId":   map[string]any{"kind": "youtube#video", "videoId": fmt.Sprintf("u%d", i)},
			}}
		})
	case "videos":
		if len(requestedIDs(q)) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"No filter selected."}}`))
			return
		}
		items := []map[string]any{}
		for _, id := range requestedIDs(q) {
			if strings.HasPrefix(id, "missing") {
				continue
			}
			items = append(items, map[string]any{
				"id":             id,
				"snippet":        map[string]any{"title": "Video " + id, "channelId": "UCowner", "channelTitle": "Owner", "tags": []string{"go"}},
				"contentDetails": map[string]any{"duration": "PT4M13S", "dimension": "2d"},
				"statistics":     map[string]any{"viewCount": "1200", "likeCount": "34", "commentCount": "5"},
				"topicDetails":   map[string]any{"topicCategories": []string{"https://en.wikipedia.org/wiki/Technology"}},
			})
		}
		resp = map[string]any{"items": items, "pageInfo": map[string]any{"totalResults": len(items)}}
	case "channels":
		if q.Get("id") != "UCowner" {
			resp = map[string]any{"items": []any{}}
			break
		}
		resp = map[string]any{"items": []map[string]any{{
			"id":             "UCowner",
			"snippet":        map[string]any{"title": "Owner", "country": "IT", "publishedAt": "2010-01-01T00:00:00Z"},
			"statistics":     map[string]any{"viewCount": "99", "subscriberCount": "10", "videoCount": "3"},
			"contentDetails": map[string]any{"relatedPlaylists": map[string]any{"uploads": "UUuploads"}},
		}}}
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// requestedIDs accepts both repeated and comma separated id parameters.
func requestedIDs(q url.Values) []string {
	var ids []string
	for _, v := range q["id"] {
		ids = append(ids, strings.Split(v, ",")...)
	}
	return ids
}

func (f *fakeYouTube) page(q url.Values, item func(int) map[string]any) map[string]any {
	size, _ := strconv.Atoi(q.Get("maxResults"))
	offset, _ := strconv.Atoi(strings.TrimPrefix(q.Get("pageToken"), "t"))
	end := min(offset+size, f.results)
	items := []map[string]any{}
	for i := offset; i < end; i++ {
		items = append(items, item(i))
	}
	resp := map[string]any{
		"items":    items,
		"pageInfo": map[string]any{"totalResults": f.total, "resultsPerPage": size},
	}
	if end < f.results {
		resp["nextPageToken"] = fmt.Sprintf("t%d", end)
	}
	return resp
}

func (f *fakeYouTube) calls() ([]string, []url.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...), append([]url.Values(nil), f.requests...)
}

func newTestService(t *testing.T, fake *fakeYouTube) *youtube.Service {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	svc, err := youtube.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/youtube/v3/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return svc
}

func TestSearchChannels_Defaults(t *testing.T) {
	fake := &fakeYouTube{results: 200, total: 1000000, noIDAt: -1}
	c := New(newTestService(t, fake))

	out, err := c.SearchChannels(context.Background(), SearchInput{Query: "golang"})
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), out.TotalResults)
	require.Len(t, out.Channels, defaultMaxResults)
	assert.Equal(t, ChannelInfo{ChannelID: "UC0", ChannelTitle: "Title 0", Description: "desc", PublishedAt: "2024-01-01T00:00:00Z"}, out.Channels[0])

	_, reqs := fake.calls()
	require.Len(t, reqs, 1)
	assert.Equal(t, "channel", reqs[0].Get("type"))
	assert.Equal(t, "relevance", reqs[0].Get("order"))
	assert.Equal(t, "US", reqs[0].Get("regionCode"))
	assert.Equal(t, "50", reqs[0].Get("maxResults"))
	assert.Empty(t, reqs[0].Get("videoDuration"))
}

func TestSearchVideos_Paginates(t *testing.T) {
	fake := &fakeYouTube{results: 200, total: 200, noIDAt: 3}
	c := New(newTestService(t, fake))

	out, err := c.SearchVideos(context.Background(), SearchInput{Query: "golang", MaxResults: 120, PublishedAfter: "2024-01-01T00:00:00Z"})
	require.NoError(t, err)
	require.Len(t, out.Videos, 120)
	assert.Equal(t, "v120", out.Videos[119].VideoID, "item without id is skipped and replaced")

	_, reqs := fake.calls()
	require.Len(t, reqs, 3)
	assert.Equal(t, "date", reqs[0].Get("order"))
	assert.Equal(t, "any", reqs[0].Get("videoDuration"))
	assert.Equal(t, "2024-01-01T00:00:00Z", reqs[0].Get("publishedAfter"))
	assert.Equal(t, "t50", reqs[1].Get("pageToken"))
	assert.Equal(t, "21", reqs[2].Get("maxResults"))
}

func TestSearchPlaylists_Exhausted(t *testing.T) {
	fake := &fakeYouTube{results: 7, total: 7, noIDAt: -1}
	c := New(newTestService(t, fake))

	out, err := c.SearchPlaylists(context.Background(), SearchInput{Query: "go talks", Order: "viewCount"})
	require.NoError(t, err)
	assert.Len(t, out.Playlists, 7)
	assert.Equal(t, "PL6", out.Playlists[6].PlaylistID)
	assert.Equal(t, "UCowner", out.Playlists[6].ChannelID)

	_, reqs := fake.calls()
	assert.Equal(t, "viewCount", reqs[0].Get("order"))
}

func TestSearch_RequiresQuery(t *testing.T) {
	c := New(newTestService(t, &fakeYouTube{}))
	_, err := c.SearchVideos(context.Background(), SearchInput{})
	assert.Error(t, err)
}

func TestGetVideoInfo(t *testing.T) {
	fake := &fakeYouTube{}
	c := New(newTestService(t, fake))

	ids := []string{"a", "missing1", " b "}
	for i := 0; i < 60; i++ {
		ids = append(ids, fmt.Sprintf("x%d", i))
	}

	out, err := c.GetVideoInfo(context.Background(), VideoInfoInput{VideoIDs: ids})
	require.NoError(t, err)
	require.Len(t, out.Videos, 62)
	assert.Equal(t, int64(62), out.TotalResults)
	assert.Equal(t, VideoInfo{
		ChannelID:       "UCowner",
		ChannelTitle:    "Owner",
		VideoID:         "a",
		VideoTitle:      "Video a",
		Tags:            []string{"go"},
		Duration:        "PT4M13S",
		Dimension:       "2d",
		ViewCount:       1200,
		LikeCount:       34,
		CommentCount:    5,
		TopicCategories: []string{"https://en.wikipedia.org/wiki/Technology"},
	}, out.Videos[0])
	assert.Equal(t, "b", out.Videos[1].VideoID)

	paths, reqs := fake.calls()
	assert.Equal(t, []string{"videos", "videos"}, paths)
	assert.Len(t, requestedIDs(reqs[0]), 50)
	assert.Len(t, requestedIDs(reqs[1]), 13)

	_, err = c.GetVideoInfo(context.Background(), VideoInfoInput{VideoIDs: []string{" "}})
	assert.Error(t, err)
}

func TestGetVideoInfo_UnknownInLastBatch(t *testing.T) {
	tests := []struct {
		name   string
		ids    []string
		videos int
		calls  int
	}{
		{name: "single unknown", ids: []string{"missing1"}, videos: 0, calls: 1},
		{name: "unknown last", ids: []string{"a", "missing1"}, videos: 1, calls: 1},
		{name: "unknown after full batch", ids: append(numbered(50), "missing1"), videos: 50, calls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeYouTube{}
			c := New(newTestService(t, fake))

			out, err := c.GetVideoInfo(context.Background(), VideoInfoInput{VideoIDs: tt.ids})
			require.NoError(t, err)
			assert.Len(t, out.Videos, tt.videos)

			paths, reqs := fake.calls()
			assert.Len(t, paths, tt.calls)
			for _, q := range reqs {
				assert.NotEmpty(t, requestedIDs(q))
			}
		})
	}
}

func numbered(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("x%d", i)
	}
	return ids
}

func TestGetChannelInfo(t *testing.T) {
	c := New(newTestService(t, &fakeYouTube{}))

	out, err := c.GetChannelInfo(context.Background(), ChannelInput{ChannelID: "UCowner"})
	require.NoError(t, err)
	assert.Equal(t, ChannelInfo{
		ChannelID:       "UCowner",
		ChannelTitle:    "Owner",
		PublishedAt:     "2010-01-01T00:00:00Z",
		Country:         "IT",
		ViewCount:       99,
		SubscriberCount: 10,
		VideoCount:      3,
	}, out)

	_, err = c.GetChannelInfo(context.Background(), ChannelInput{ChannelID: "UCnobody"})
	assert.ErrorContains(t, err, "not found")
}

func TestGetChannelVideos_ResolvesUploadsOnce(t *testing.T) {
	fake := &fakeYouTube{results: 75, total: 75, noIDAt: -1}
	c := New(newTestService(t, fake))

	out, err := c.GetChannelVideos(context.Background(), ChannelVideosInput{ChannelID: "UCowner", MaxResults: 70})
	require.NoError(t, err)
	require.Len(t, out.Videos, 70)
	assert.Equal(t, int64(75), out.TotalResults)
	assert.Equal(t, "u69", out.Videos[69].VideoID)

	paths, reqs := fake.calls()
	assert.Equal(t, []string{"channels", "playlistItems", "playlistItems"}, paths)
	assert.Equal(t, "20", reqs[2].Get("maxResults"))
}

func TestConstructHyperlink(t *testing.T) {
	tests := []struct {
		kind, id, want string
		wantErr        bool
	}{
		{"channel", "UC123", "https://www.youtube.com/channel/UC123", false},
		{"playlist", "PL9", "https://www.youtube.com/playlist?list=PL9", false},
		{"video", "dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", false},
		{"short", "x", "", true},
		{"video", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.id, func(t *testing.T) {
			got, err := ConstructHyperlink(tt.kind, tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTools(t *testing.T) {
	tools := NewTools(newTestService(t, &fakeYouTube{}))
	require.Len(t, tools, 7)

	out, err := tools[6].Call(context.Background(), `{"kind":"video","id":"abc"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://www.youtube.com/watch?v=abc"}`, out)
}
