package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cyberzid/feed/internal/auth"
	"github.com/cyberzid/feed/internal/handler"
	"github.com/cyberzid/feed/internal/ierr"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RESTServer struct {
	logger        *zap.Logger
	authenticator *auth.Authenticator
	corsOrigin    string

	healthHandler       *handler.HealthHandler
	loginHandler        *handler.LoginHandler
	registerHandler     *handler.RegisterHandler
	listPostsHandler    *handler.ListPostsHandler
	createPostHandler   *handler.CreatePostHandler
	likePostHandler     *handler.LikePostHandler
	deletePostHandler   *handler.DeletePostHandler
	listUsersHandler    *handler.ListUsersHandler
	userProfileHandler  *handler.UserProfileHandler
	listMessagesHandler *handler.ListMessagesHandler
}

func NewRESTServer(
	logger *zap.Logger,
	authenticator *auth.Authenticator,
	corsOrigin string,
	healthHandler *handler.HealthHandler,
	loginHandler *handler.LoginHandler,
	registerHandler *handler.RegisterHandler,
	listPostsHandler *handler.ListPostsHandler,
	createPostHandler *handler.CreatePostHandler,
	likePostHandler *handler.LikePostHandler,
	deletePostHandler *handler.DeletePostHandler,
	listUsersHandler *handler.ListUsersHandler,
	userProfileHandler *handler.UserProfileHandler,
	listMessagesHandler *handler.ListMessagesHandler,
) *RESTServer {
	return &RESTServer{
		logger,
		authenticator,
		corsOrigin,
		healthHandler,
		loginHandler,
		registerHandler,
		listPostsHandler,
		createPostHandler,
		likePostHandler,
		deletePostHandler,
		listUsersHandler,
		userProfileHandler,
		listMessagesHandler,
	}
}

func (s *RESTServer) Register(router *mux.Router) {
	router.HandleFunc("/health", s.cors(s.health)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/health", s.cors(s.health)).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/auth/login", s.cors(s.login)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/register", s.cors(s.register)).Methods("POST", "OPTIONS")

	router.HandleFunc("/api/posts", s.cors(s.listPosts)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/posts", s.cors(s.authenticated(s.createPost))).Methods("POST")
	router.HandleFunc("/api/posts/{id}/like", s.cors(s.authenticated(s.likePost))).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/posts/{id}", s.cors(s.authenticated(s.deletePost))).Methods("DELETE", "OPTIONS")

	router.HandleFunc("/api/users", s.cors(s.listUsers)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/users/{username}", s.cors(s.userProfile)).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/messages", s.cors(s.authenticated(s.listMessages))).Methods("GET", "OPTIONS")
}

// cors sets the response headers every API route shares and short-circuits
// preflight requests.
func (s *RESTServer) cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if r.Method == "OPTIONS" {
			return
		}

		next(w, r)
	}
}

func (s *RESTServer) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("token required")))
			return
		}

		principal, err := s.authenticator.Authenticate(token)
		if err != nil {
			s.writeError(w, err)
			return
		}

		next(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	}
}

func (s *RESTServer) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.healthHandler.Handle())
}

func (s *RESTServer) login(w http.ResponseWriter, r *http.Request) {
	var req handler.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid request body")))
		return
	}

	resp, err := s.loginHandler.Handle(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, resp)
}

func (s *RESTServer) register(w http.ResponseWriter, r *http.Request) {
	var req handler.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid request body")))
		return
	}

	resp, err := s.registerHandler.Handle(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, resp)
}

func (s *RESTServer) listPosts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.listPostsHandler.Handle(r.Context()))
}

func (s *RESTServer) createPost(w http.ResponseWriter, r *http.Request) {
	var req handler.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid request body")))
		return
	}

	resp, err := s.createPostHandler.Handle(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, resp)
}

func (s *RESTServer) likePost(w http.ResponseWriter, r *http.Request) {
	postId, err := s.pathId(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.likePostHandler.Handle(r.Context(), handler.LikePostRequest{PostId: postId})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, resp)
}

func (s *RESTServer) deletePost(w http.ResponseWriter, r *http.Request) {
	postId, err := s.pathId(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.deletePostHandler.Handle(r.Context(), handler.DeletePostRequest{PostId: postId})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, resp)
}

func (s *RESTServer) listUsers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.listUsersHandler.Handle(r.Context()))
}

func (s *RESTServer) userProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.userProfileHandler.Handle(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, resp)
}

func (s *RESTServer) listMessages(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listMessagesHandler.Handle(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, resp)
}

func (s *RESTServer) pathId(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid post id"))
	}

	return id, nil
}

func (s *RESTServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *RESTServer) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var coded ierr.Error
	if errors.As(err, &coded) {
		switch coded.Code {
		case ierr.ErrorCodeInvalidArgument, ierr.ErrorCodeAlreadyExists:
			status = http.StatusBadRequest
		case ierr.ErrorCodeUnauthenticated:
			status = http.StatusUnauthorized
		case ierr.ErrorCodePermissionDenied:
			status = http.StatusForbidden
		case ierr.ErrorCodeNotFound:
			status = http.StatusNotFound
		}
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encodeErr := json.NewEncoder(w).Encode(errorResponse{Error: err.Error()}); encodeErr != nil {
		s.logger.Error("failed to encode error response", zap.Error(encodeErr))
	}
}
