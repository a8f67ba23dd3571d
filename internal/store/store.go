package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cyberzid/feed/internal/domain"
	"github.com/cyberzid/feed/internal/ierr"
	"github.com/samber/lo"
)

// Store holds every domain record in process memory. There is no durable
// layout behind it; a restart starts from the seed data again.
//
// Ids are allocated from per-collection counters and are never reused, even
// after a delete.
type Store struct {
	mu sync.Mutex

	users    []domain.User
	posts    []domain.Post
	messages []domain.DirectMessage

	nextUserId    int
	nextPostId    int
	nextMessageId int
}

func New() *Store {
	return &Store{
		nextUserId:    1,
		nextPostId:    1,
		nextMessageId: 1,
	}
}

type CreateUserRequest struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     string
}

func (s *Store) CreateUser(req CreateUserRequest) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists := lo.ContainsBy(s.users, func(u domain.User) bool {
		return u.Email == req.Email || u.Username == req.Username
	})
	if exists {
		return domain.User{}, ierr.New(ierr.ErrorCodeAlreadyExists, errors.New("username or email already taken"))
	}

	user := domain.User{
		Id:           s.nextUserId,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		FullName:     req.FullName,
		Avatar:       avatarFor(req.Username),
		CreateTime:   time.Now(),
	}
	s.nextUserId++
	s.users = append(s.users, user)

	return user, nil
}

func (s *Store) UserByEmail(email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findUser(func(u domain.User) bool { return u.Email == email })
}

func (s *Store) UserByUsername(username string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findUser(func(u domain.User) bool { return u.Username == username })
}

func (s *Store) UserById(id int) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findUser(func(u domain.User) bool { return u.Id == id })
}

func (s *Store) findUser(predicate func(domain.User) bool) (domain.User, error) {
	user, ok := lo.Find(s.users, predicate)
	if !ok {
		return domain.User{}, ierr.New(ierr.ErrorCodeNotFound, errors.New("user not found"))
	}

	return user, nil
}

func (s *Store) ListUsers() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.User(nil), s.users...)
}

// ListPosts returns the feed, newest first.
func (s *Store) ListPosts() []domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := append([]domain.Post(nil), s.posts...)
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreateTime.After(posts[j].CreateTime)
	})

	return posts
}

func (s *Store) CountPostsBy(userId int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.CountBy(s.posts, func(p domain.Post) bool { return p.UserId == userId })
}

func (s *Store) CreatePost(userId int, content string) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	author, err := s.findUser(func(u domain.User) bool { return u.Id == userId })
	if err != nil {
		return domain.Post{}, err
	}

	post := domain.Post{
		Id:         s.nextPostId,
		UserId:     userId,
		Content:    content,
		CreateTime: time.Now(),
		Username:   author.Username,
		FullName:   author.FullName,
		Avatar:     author.Avatar,
	}
	s.nextPostId++
	s.posts = append(s.posts, post)

	return post, nil
}

// LikePost increments the like counter and returns the new count. There is no
// per-user like tracking; repeated likes keep incrementing.
func (s *Store) LikePost(postId int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].Id == postId {
			s.posts[i].LikesCount++
			return s.posts[i].LikesCount, nil
		}
	}

	return 0, ierr.New(ierr.ErrorCodeNotFound, errors.New("post not found"))
}

func (s *Store) DeletePost(postId int, userId int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].Id != postId {
			continue
		}

		if s.posts[i].UserId != userId {
			return ierr.New(ierr.ErrorCodePermissionDenied, errors.New("post belongs to another user"))
		}

		s.posts = append(s.posts[:i], s.posts[i+1:]...)

		return nil
	}

	return ierr.New(ierr.ErrorCodeNotFound, errors.New("post not found"))
}

func (s *Store) AppendMessage(senderId int, receiverId int, content string) domain.DirectMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := domain.DirectMessage{
		Id:         s.nextMessageId,
		SenderId:   senderId,
		ReceiverId: receiverId,
		Content:    content,
		CreateTime: time.Now(),
	}
	s.nextMessageId++
	s.messages = append(s.messages, message)

	return message
}

// MessagesFor returns every direct message the user sent or received.
func (s *Store) MessagesFor(userId int) []domain.DirectMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Filter(s.messages, func(m domain.DirectMessage, _ int) bool {
		return m.SenderId == userId || m.ReceiverId == userId
	})
}

func avatarFor(username string) string {
	if username == "" {
		return ""
	}

	first, _ := utf8.DecodeRuneInString(username)

	return strings.ToUpper(string(first))
}
