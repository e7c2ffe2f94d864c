package types

// VoteResponse is the authoritative result of a vote toggle.
type VoteResponse struct {
	Upvoted bool `json:"upvoted"`
	Upvotes int  `json:"upvotes"`
}

// CreateIdeaRequest carries the caller-supplied fields for a new idea.
// Author identity comes from the authenticated session, never the payload.
type CreateIdeaRequest struct {
	Problem    string   `json:"problem"`
	Solution   string   `json:"solution"`
	Impact     string   `json:"impact"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	AuthorName string   `json:"authorName"`
	IsPublic   *bool    `json:"isPublic"`
}

// BookmarkResponse is the result of a bookmark toggle.
type BookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// BookmarkListResponse lists the idea IDs a user has bookmarked.
type BookmarkListResponse struct {
	IdeaIDs []string `json:"ideaIds"`
}

// UserStatsResponse is the per-author engagement projection.
type UserStatsResponse struct {
	UserID               string `json:"userId"`
	TotalIdeas           int    `json:"totalIdeas"`
	TotalUpvotesReceived int    `json:"totalUpvotesReceived"`
}
