package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk/internal/models"
)

func TestBlogPostSlugRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	post := &models.BlogPost{
		Slug:      "x",
		Title:     "음주운전 처벌 기준",
		Content:   "본문",
		Published: true,
	}
	require.NoError(t, db.CreateBlogPost(ctx, post))

	got, err := db.GetBlogPostBySlug(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, post.Content, got.Content)
	assert.False(t, got.PublishedAt.IsZero())

	dup := &models.BlogPost{Slug: "x", Title: "other", Content: "other"}
	assert.ErrorIs(t, db.CreateBlogPost(ctx, dup), ErrSlugTaken)
}

func TestBlogPostListFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	posts := []models.BlogPost{
		{Slug: "a", Title: "이혼 절차", Content: "c", Category: "family", Published: true},
		{Slug: "b", Title: "상속 분쟁", Content: "c", Category: "family", Published: false},
		{Slug: "c", Title: "형사 변호", Content: "c", Category: "criminal", Published: true},
	}
	for i := range posts {
		require.NoError(t, db.CreateBlogPost(ctx, &posts[i]))
	}

	public, err := db.ListBlogPosts(ctx, ContentFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, public, 2)

	family, err := db.ListBlogPosts(ctx, ContentFilter{Category: "family"})
	require.NoError(t, err)
	assert.Len(t, family, 2)

	search, err := db.ListBlogPosts(ctx, ContentFilter{Search: "이혼"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "a", search[0].Slug)

	limited, err := db.ListBlogPosts(ctx, ContentFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestTestimonialCascadeDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tc := &models.TestimonialCase{
		Slug:         "acquittal-2025",
		Title:        "무죄 판결 후기",
		Content:      "본문",
		ConsentGiven: true,
	}
	require.NoError(t, db.CreateTestimonialCase(ctx, tc))

	p1 := &models.TestimonialPhoto{TestimonialID: tc.ID, URL: "/photos/1.jpg"}
	p2 := &models.TestimonialPhoto{TestimonialID: tc.ID, URL: "/photos/2.jpg", SortOrder: 1}
	require.NoError(t, db.AddTestimonialPhoto(ctx, p1))
	require.NoError(t, db.AddTestimonialPhoto(ctx, p2))

	got, err := db.GetTestimonialCase(ctx, tc.ID)
	require.NoError(t, err)
	require.Len(t, got.Photos, 2)

	require.NoError(t, db.DeleteTestimonialCase(ctx, tc.ID))

	_, err = db.GetTestimonialPhoto(ctx, p1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.GetTestimonialPhoto(ctx, p2.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTestimonialConsentGating(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	withConsent := &models.TestimonialCase{Slug: "ok", Title: "t", Content: "c", ConsentGiven: true}
	withoutConsent := &models.TestimonialCase{Slug: "no", Title: "t", Content: "c"}
	require.NoError(t, db.CreateTestimonialCase(ctx, withConsent))
	require.NoError(t, db.CreateTestimonialCase(ctx, withoutConsent))

	public, err := db.ListTestimonialCases(ctx, ContentFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "ok", public[0].Slug)

	all, err := db.ListTestimonialCases(ctx, ContentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCaseCascadeAndFAQ(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	c := &models.Case{Slug: "dui-acquittal", Title: "음주측정 불복 무죄", Content: "본문", Published: true}
	require.NoError(t, db.CreateCase(ctx, c))
	photo := &models.CasePhoto{CaseID: c.ID, URL: "/photos/verdict.jpg"}
	require.NoError(t, db.AddCasePhoto(ctx, photo))

	require.NoError(t, db.DeleteCase(ctx, c.ID))
	_, err := db.GetCasePhoto(ctx, photo.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	f := &models.FAQ{Question: "상담 비용이 있나요?", Answer: "초기 상담은 무료입니다.", Published: true}
	require.NoError(t, db.CreateFAQ(ctx, f))
	got, err := db.GetFAQ(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Question, got.Question)
}

func TestMessageTemplatesAndLogs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tpl := &models.MessageTemplate{Code: "consultation_confirmed", Title: "확정 안내", Body: "{{name}}님 상담이 확정되었습니다."}
	require.NoError(t, db.UpsertTemplate(ctx, tpl))

	tpl.Body = "{{name}}님, {{date}} {{time}} 상담이 확정되었습니다."
	require.NoError(t, db.UpsertTemplate(ctx, tpl))

	got, err := db.GetTemplateByCode(ctx, "consultation_confirmed")
	require.NoError(t, err)
	assert.Contains(t, got.Body, "{{date}}")

	log := &models.MessageLog{
		ConsultationID: 1, Phone: "010-1234-5678", Kind: models.MessageSMS,
		TemplateCode: "consultation_confirmed", Body: "x", Status: models.MessageSent,
	}
	require.NoError(t, db.InsertMessageLog(ctx, log))

	logs, err := db.ListMessageLogs(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestSyncQueue(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.EnqueueSync(ctx, "upsert", 7, `{"id":7}`))

	tasks, err := db.DequeueSyncTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(7), tasks[0].ConsultationID)

	// A failed attempt under budget stays pending with a future retry time.
	require.NoError(t, db.MarkSyncFailed(ctx, tasks[0].ID, 1, "gateway timeout"))
	tasks, err = db.DequeueSyncTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// Budget exhausted marks the task failed outright.
	require.NoError(t, db.MarkSyncFailed(ctx, 1, MaxSyncRetries, "still down"))
}
