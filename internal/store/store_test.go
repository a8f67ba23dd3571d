package store

import (
	"testing"

	"github.com/cyberzid/feed/internal/ierr"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s := New()
	s.Seed("not-a-real-hash")

	return s
}

func TestStore_Users(t *testing.T) {
	t.Run("create and look up", func(t *testing.T) {
		s := newTestStore(t)

		user, err := s.CreateUser(CreateUserRequest{
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
			FullName:     "Alice Doe",
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, user.Id)
		assert.Equal(t, "A", user.Avatar)

		byEmail, err := s.UserByEmail("alice@example.com")
		assert.NoError(t, err)
		assert.Equal(t, user.Id, byEmail.Id)

		byUsername, err := s.UserByUsername("alice")
		assert.NoError(t, err)
		assert.Equal(t, user.Id, byUsername.Id)
	})

	t.Run("duplicate username or email is rejected", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.CreateUser(CreateUserRequest{Username: "demo", Email: "new@example.com"})

		var coded ierr.Error
		assert.ErrorAs(t, err, &coded)
		assert.Equal(t, ierr.ErrorCodeAlreadyExists, coded.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.UserByUsername("nobody")

		var coded ierr.Error
		assert.ErrorAs(t, err, &coded)
		assert.Equal(t, ierr.ErrorCodeNotFound, coded.Code)
	})
}

func TestStore_Posts(t *testing.T) {
	t.Run("create denormalizes the author", func(t *testing.T) {
		s := newTestStore(t)

		post, err := s.CreatePost(1, "hello world")
		assert.NoError(t, err)
		assert.Equal(t, 3, post.Id)
		assert.Equal(t, "demo", post.Username)
		assert.Equal(t, "Demo User", post.FullName)
		assert.Equal(t, "D", post.Avatar)
		assert.Equal(t, 0, post.LikesCount)
	})

	t.Run("feed is newest first", func(t *testing.T) {
		s := newTestStore(t)

		created, err := s.CreatePost(1, "latest")
		assert.NoError(t, err)

		posts := s.ListPosts()
		assert.Len(t, posts, 3)
		assert.Equal(t, created.Id, posts[0].Id)
	})

	t.Run("ids are never reused after delete", func(t *testing.T) {
		s := newTestStore(t)

		first, err := s.CreatePost(1, "一")
		assert.NoError(t, err)
		assert.NoError(t, s.DeletePost(first.Id, 1))

		second, err := s.CreatePost(1, "二")
		assert.NoError(t, err)
		assert.Greater(t, second.Id, first.Id)
	})

	t.Run("like increments and returns the count", func(t *testing.T) {
		s := newTestStore(t)

		count, err := s.LikePost(1)
		assert.NoError(t, err)
		assert.Equal(t, 43, count)

		count, err = s.LikePost(1)
		assert.NoError(t, err)
		assert.Equal(t, 44, count)
	})

	t.Run("like of a missing post", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.LikePost(999)

		var coded ierr.Error
		assert.ErrorAs(t, err, &coded)
		assert.Equal(t, ierr.ErrorCodeNotFound, coded.Code)
	})

	t.Run("delete is owner-only", func(t *testing.T) {
		s := newTestStore(t)

		err := s.DeletePost(1, 42)

		var coded ierr.Error
		assert.ErrorAs(t, err, &coded)
		assert.Equal(t, ierr.ErrorCodePermissionDenied, coded.Code)
		assert.Len(t, s.ListPosts(), 2)
	})
}

func TestStore_Messages(t *testing.T) {
	s := newTestStore(t)

	first := s.AppendMessage(1, 2, "hola")
	second := s.AppendMessage(2, 1, "hey")
	s.AppendMessage(3, 4, "unrelated")

	assert.Equal(t, 1, first.Id)
	assert.Equal(t, 2, second.Id)
	assert.False(t, first.Read)

	forUserOne := s.MessagesFor(1)
	assert.Len(t, forUserOne, 2)

	forUserThree := s.MessagesFor(3)
	assert.Len(t, forUserThree, 1)

	assert.Empty(t, s.MessagesFor(99))
}
