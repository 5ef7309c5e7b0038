// ABOUTME: Feed domain model holds the normalized posts of one social account
// ABOUTME: Posts keep the upstream order and carry only what templates render

package domain

// Post is a single normalized media item from a social account.
type Post struct {
	// Image is the URL of the picture to display. For videos this is the
	// thumbnail, for everything else the media itself.
	Image string `json:"image"`

	// Link is the permalink to the post on the provider's site
	Link string `json:"link"`
}

// Feed is the ordered list of posts for one configured account.
// Order is the order the provider returned, newest first for Instagram.
type Feed []Post

// IsEmpty reports whether the feed holds no posts
func (f Feed) IsEmpty() bool {
	return len(f) == 0
}

// Len returns the number of posts in the feed
func (f Feed) Len() int {
	return len(f)
}

// Page returns the 1-based page of perPage posts. A perPage below 1 returns
// the whole feed. Pages past the end are empty.
func (f Feed) Page(page, perPage int) Feed {
	if perPage < 1 {
		return f
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	if start >= len(f) {
		return Feed{}
	}

	end := start + perPage
	if end > len(f) {
		end = len(f)
	}

	return f[start:end]
}
