package commentservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloglist/internal/common"
)

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	args := m.Called(ctx, msg, key, exchange)
	return args.Error(0)
}

func setupTestEnvironment(t *testing.T) (*CommentService, *mockProducer, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)
	mb := new(mockProducer)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewCommentService(db, mb, logger), mb, db
}

func createTestBlog(t *testing.T, db *sql.DB, title string) string {
	id := common.NewID()
	_, err := db.Exec("INSERT INTO blogs (id, title, author, url) VALUES ($1, $2, $3, $4)", id, title, "Michael Chan", "https://reactpatterns.com/")
	require.NoError(t, err)
	return id
}

func blogCommentIDs(t *testing.T, db *sql.DB, blogID string) []string {
	var ids []string
	err := db.QueryRow("SELECT comment_ids FROM blogs WHERE id = $1", blogID).Scan(pq.Array(&ids))
	require.NoError(t, err)
	return ids
}

func TestCreateComment(t *testing.T) {
	s, mb, db := setupTestEnvironment(t)
	blogID := createTestBlog(t, db, "React patterns")

	mb.On("Publish", mock.Anything, mock.Anything, common.CommentCreatedKey, common.BlogExchange).Return(nil)

	testCases := []struct {
		name        string
		blogID      string
		content     string
		expectedErr error
	}{
		{name: "valid comment", blogID: blogID, content: "a classic"},
		{name: "empty content", blogID: blogID, content: "", expectedErr: ErrContentMissing},
		{name: "blank content", blogID: blogID, content: "   ", expectedErr: ErrContentMissing},
		{name: "only a script", blogID: blogID, content: "<script>alert(1)</script>", expectedErr: ErrContentMissing},
		{name: "malformed blog id", blogID: "5a43fde2cbd20b12a2c34e9", content: "hello", expectedErr: common.ErrMalformedID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := blogCommentIDs(t, db, blogID)

			c, err := s.CreateComment(context.Background(), tc.blogID, &CreateCommentRequest{Content: tc.content})
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Equal(t, before, blogCommentIDs(t, db, blogID))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.content, c.Content)
			assert.Equal(t, blogID, c.BlogID)
			assert.Equal(t, append(before, c.ID), blogCommentIDs(t, db, blogID))
		})
	}

	mb.AssertNumberOfCalls(t, "Publish", 1)
}

func TestCreateCommentUnknownBlog(t *testing.T) {
	s, mb, db := setupTestEnvironment(t)

	_, err := s.CreateComment(context.Background(), common.NewID(), &CreateCommentRequest{Content: "hello"})
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&count))
	assert.Equal(t, 0, count)
	mb.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCommentPublishesEvent(t *testing.T) {
	s, mb, db := setupTestEnvironment(t)
	blogID := createTestBlog(t, db, "Type wars")

	var published []byte
	mb.On("Publish", mock.Anything, mock.Anything, common.CommentCreatedKey, common.BlogExchange).
		Run(func(args mock.Arguments) { published = args.Get(1).([]byte) }).
		Return(nil)

	c, err := s.CreateComment(context.Background(), blogID, &CreateCommentRequest{Content: "strong typing wins"})
	require.NoError(t, err)

	var event CommentCreatedEvent
	require.NoError(t, json.Unmarshal(published, &event))
	assert.Equal(t, CommentCreatedEvent{CommentID: c.ID, BlogID: blogID, BlogTitle: "Type wars", Content: "strong typing wins"}, event)
}

func TestCreateCommentPublishFailure(t *testing.T) {
	s, mb, db := setupTestEnvironment(t)
	blogID := createTestBlog(t, db, "Type wars")

	mb.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	c, err := s.CreateComment(context.Background(), blogID, &CreateCommentRequest{Content: "still stored"})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, blogCommentIDs(t, db, blogID))
}

func TestGetCommentsByBlog(t *testing.T) {
	s, mb, db := setupTestEnvironment(t)
	blogID := createTestBlog(t, db, "React patterns")
	otherID := createTestBlog(t, db, "Type wars")

	mb.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	first, err := s.CreateComment(context.Background(), blogID, &CreateCommentRequest{Content: "first"})
	require.NoError(t, err)
	second, err := s.CreateComment(context.Background(), blogID, &CreateCommentRequest{Content: "second"})
	require.NoError(t, err)
	_, err = s.CreateComment(context.Background(), otherID, &CreateCommentRequest{Content: "elsewhere"})
	require.NoError(t, err)

	comments, err := s.GetCommentsByBlog(context.Background(), blogID)
	require.NoError(t, err)
	assert.Equal(t, []Comment{*first, *second}, comments)

	comments, err = s.GetCommentsByBlog(context.Background(), common.NewID())
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = s.GetCommentsByBlog(context.Background(), "bad")
	assert.ErrorIs(t, err, common.ErrMalformedID)

	// comments go with their blog
	_, err = db.Exec("DELETE FROM blogs WHERE id = $1", blogID)
	require.NoError(t, err)

	comments, err = s.GetCommentsByBlog(context.Background(), blogID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
