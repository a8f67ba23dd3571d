package store

import (
	"time"

	"github.com/cyberzid/feed/internal/domain"
)

// Seed loads the demo account and its welcome posts. It is meant to run once,
// right after New, before the store is shared with any handler.
func (s *Store) Seed(demoPasswordHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	demo := domain.User{
		Id:           s.nextUserId,
		Username:     "demo",
		Email:        "demo@cyberzid.com",
		PasswordHash: demoPasswordHash,
		FullName:     "Demo User",
		Avatar:       "D",
		Bio:          "Bienvenido a CyberZid - La red social del futuro",
		CreateTime:   time.Now(),
	}
	s.nextUserId++
	s.users = append(s.users, demo)

	welcome := []domain.Post{
		{
			UserId:        demo.Id,
			Content:       "🚀 ¡Bienvenido a CyberZid! La red social del futuro está aquí. Conecta, comparte y crea comunidad.",
			LikesCount:    42,
			CommentsCount: 5,
			CreateTime:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			UserId:        demo.Id,
			Content:       "💡 Conecta con amigos, comparte ideas y crea comunidad. Todo en tiempo real.",
			LikesCount:    28,
			CommentsCount: 3,
			CreateTime:    time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, post := range welcome {
		post.Id = s.nextPostId
		post.Username = demo.Username
		post.FullName = demo.FullName
		post.Avatar = demo.Avatar
		s.nextPostId++
		s.posts = append(s.posts, post)
	}
}
