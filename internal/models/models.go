package models

import "time"

// UserProfile mirrors the marketing API's profile record. Timestamps are
// unix seconds, which is what the backend emits.
type UserProfile struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	BusinessType      string `json:"business_type"`
	CreatedAt         int64  `json:"created_at"`
	UpdatedAt         int64  `json:"updated_at,omitempty"`
	PostsCreated      int    `json:"posts_created"`
	ConnectedAccounts int    `json:"connected_accounts"`
}

// JoinDate renders created_at the way the dashboard displays it ("March 2025"),
// or "Recently" when the backend never sent one.
func (p UserProfile) JoinDate() string {
	if p.CreatedAt == 0 {
		return "Recently"
	}
	return time.Unix(p.CreatedAt, 0).UTC().Format("January 2006")
}

// ConnectionDetail is platform-specific metadata about the posting identity
// a connected account will use.
type ConnectionDetail struct {
	Username      string `json:"username,omitempty"`
	AccountType   string `json:"account_type,omitempty"`
	PageName      string `json:"page_name,omitempty"`
	PostingMethod string `json:"posting_method,omitempty"`
	Organizations int    `json:"organizations,omitempty"`
}

// ConnectionStatus is the per-platform connect state from /social/status.
type ConnectionStatus struct {
	Connected bool              `json:"connected"`
	Detail    *ConnectionDetail `json:"detail,omitempty"`
}

// SocialStatus maps platform name (linkedin, instagram, twitter, facebook)
// to its connection status.
type SocialStatus map[string]ConnectionStatus

// Platforms lists every platform the dashboard shows, in card order.
var Platforms = []string{"instagram", "linkedin", "twitter", "facebook"}

// Connected counts connected platforms.
func (s SocialStatus) Connected() int {
	n := 0
	for _, st := range s {
		if st.Connected {
			n++
		}
	}
	return n
}

// SurveyResponse is the onboarding survey payload. Answer values are a
// string, a string list, or a hex-color list depending on the question kind.
type SurveyResponse struct {
	UserID       string         `json:"userId"`
	BusinessType string         `json:"businessType"`
	Answers      map[string]any `json:"answers"`
	Timestamp    string         `json:"timestamp"`
}

// ContentRequest is one AI content-generation submission.
type ContentRequest struct {
	Prompt      string          `json:"prompt"`
	NumImages   int             `json:"numImages"`
	ContentType string          `json:"contentType"`
	Platforms   map[string]bool `json:"platforms"`
}

// ContentPlatforms lists the target platform checkboxes, in form order.
var ContentPlatforms = []string{"instagram", "x", "linkedin", "facebook"}

// ContentTypes is the fixed content-style enum.
var ContentTypes = []string{"Informative", "Inspirational", "Promotional", "Educational", "Engaging"}
