// Package youtube exposes read-only YouTube Data API operations as tools:
// channel, playlist and video search, video and channel details, channel
// uploads and link construction.
//
// Callers pass an authenticated *youtube.Service to [New]; an API key is
// enough for every operation here. Lists follow nextPageToken through the
// paginate aggregator with at most 50 items per request, and report the
// first page's pageInfo.totalResults.
package youtube
