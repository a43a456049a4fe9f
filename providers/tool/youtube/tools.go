package youtube

import (
	"context"

	"google.golang.org/api/youtube/v3"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/providers/tool"
)

// Search costs 100 quota units; the other reads cost 1.
var (
	searchMetrics = cost.ToolMetrics{
		Amount:                  0.0,
		Currency:                "USD",
		CostDescription:         "100 YouTube quota units per request",
		Accuracy:                0.95,
		AverageDurationInMillis: 500,
	}
	readMetrics = cost.ToolMetrics{
		Amount:                  0.0,
		Currency:                "USD",
		CostDescription:         "1 YouTube quota unit per request",
		Accuracy:                0.99,
		AverageDurationInMillis: 300,
	}
)

// NewTools returns every YouTube tool bound to service.
func NewTools(service *youtube.Service, opts ...Option) []tool.GenericTool {
	c := New(service, opts...)
	return []tool.GenericTool{
		tool.NewTool[SearchInput, ChannelResults](
			"YouTubeSearchChannels",
			c.SearchChannels,
			tool.WithDescription("Search YouTube channels by name or topic. Returns channel ids, titles and descriptions."),
			tool.WithMetrics(searchMetrics),
		),
		tool.NewTool[SearchInput, PlaylistResults](
			"YouTubeSearchPlaylists",
			c.SearchPlaylists,
			tool.WithDescription("Search YouTube playlists. Newest first unless order is set."),
			tool.WithMetrics(searchMetrics),
		),
		tool.NewTool[SearchInput, VideoResults](
			"YouTubeSearchVideos",
			c.SearchVideos,
			tool.WithDescription("Search YouTube videos with optional date range and duration filters. Newest first unless order is set."),
			tool.WithMetrics(searchMetrics),
		),
		tool.NewTool[VideoInfoInput, VideoResults](
			"YouTubeGetVideoInfo",
			c.GetVideoInfo,
			tool.WithDescription("Get details of YouTube videos by id: duration, tags, view like and comment counts, topics."),
			tool.WithMetrics(readMetrics),
		),
		tool.NewTool[ChannelInput, ChannelInfo](
			"YouTubeGetChannelInfo",
			c.GetChannelInfo,
			tool.WithDescription("Get a YouTube channel's description, country and statistics by channel id."),
			tool.WithMetrics(readMetrics),
		),
		tool.NewTool[ChannelVideosInput, VideoResults](
			"YouTubeGetChannelVideos",
			c.GetChannelVideos,
			tool.WithDescription("List the videos uploaded by a YouTube channel, newest first."),
			tool.WithMetrics(readMetrics),
		),
		tool.NewTool[HyperlinkInput, HyperlinkOutput](
			"YouTubeHyperlink",
			func(_ context.Context, in HyperlinkInput) (HyperlinkOutput, error) {
				link, err := ConstructHyperlink(in.Kind, in.ID)
				return HyperlinkOutput{URL: link}, err
			},
			tool.WithDescription("Build the youtube.com link of a channel, playlist or video from its id."),
		),
	}
}
