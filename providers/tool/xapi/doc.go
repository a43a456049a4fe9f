// Package xapi exposes X (Twitter) API v2 operations as tools: posting and
// deleting tweets, likes, retweets, follows, user lookup, timelines, recent
// search and followers.
//
// Requests go through the *http.Client given to [New], which must sign
// them for a user context (OAuth 1.0a). The acting user is looked up once
// through /2/users/me unless [WithUserID] sets it. Listings follow
// next_token through the paginate aggregator and responses are read with
// gjson.
package xapi
