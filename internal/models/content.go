package models

import "time"

// BlogPost is a public article. Slug is unique among blog posts.
type BlogPost struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Category    string    `json:"category,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Published   bool      `json:"published"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Case is a published case study (anonymized legal matter).
type Case struct {
	ID        int64      `json:"id"`
	Slug      string     `json:"slug"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary,omitempty"`
	Content   string     `json:"content"`
	Category  string     `json:"category,omitempty"`
	Result    string     `json:"result,omitempty"` // e.g. acquittal, settlement
	Published bool       `json:"published"`
	Photos    []CasePhoto `json:"photos,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CasePhoto is an evidence/result image attached to a case. Rows are removed
// by the store's ON DELETE CASCADE when the parent case is deleted.
type CasePhoto struct {
	ID        int64     `json:"id"`
	CaseID    int64     `json:"case_id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// FAQ is a question/answer pair shown on the public FAQ page.
type FAQ struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category,omitempty"`
	SortOrder int       `json:"sort_order"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TestimonialCase is a client testimonial with consent gating: it is never
// publicly visible unless the client gave consent.
type TestimonialCase struct {
	ID           int64              `json:"id"`
	Slug         string             `json:"slug"`
	Title        string             `json:"title"`
	Content      string             `json:"content"`
	ClientInitial string            `json:"client_initial,omitempty"`
	Category     string             `json:"category,omitempty"`
	ConsentGiven bool               `json:"consent_given"`
	Photos       []TestimonialPhoto `json:"photos,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// TestimonialPhoto is an evidence photo attached to a testimonial; cascades
// on parent delete.
type TestimonialPhoto struct {
	ID            int64     `json:"id"`
	TestimonialID int64     `json:"testimonial_id"`
	URL           string    `json:"url"`
	Caption       string    `json:"caption,omitempty"`
	SortOrder     int       `json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
}

// InstagramPost mirrors a post from the firm's Instagram account.
type InstagramPost struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Permalink string    `json:"permalink"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption,omitempty"`
	PostedAt  time.Time `json:"posted_at,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
