package users

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"DemoShop/pkg/kit"
)

type Server struct {
	Log   *zap.Logger
	Store Store
}

type registerReq struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type updateReq struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,min=6,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := s.Store.List(r.Context())
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, users)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.writeLookup(w, r, "id", id, func(ctx context.Context) (User, bool, error) {
		return s.Store.Get(ctx, id)
	})
}

func (s *Server) handleGetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	s.writeLookup(w, r, "username", username, func(ctx context.Context) (User, bool, error) {
		return s.Store.GetByUsername(ctx, username)
	})
}

func (s *Server) handleGetByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	s.writeLookup(w, r, "email", email, func(ctx context.Context) (User, bool, error) {
		return s.Store.GetByEmail(ctx, email)
	})
}

func (s *Server) writeLookup(w http.ResponseWriter, r *http.Request, key, value string, find func(context.Context) (User, bool, error)) {
	u, ok, err := find(r.Context())
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{key: value})
		return
	}
	kit.WriteJSON(w, http.StatusOK, u)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decodeValid(w, r, &req) {
		return
	}

	u, err := s.Store.Create(r.Context(), Draft{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	})
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}

	if s.Log != nil {
		s.Log.Info("user registered", zap.String("user_id", u.ID))
	}
	kit.WriteJSON(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeValid(w, r, &req) {
		return
	}

	u, ok, err := s.Store.Authenticate(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateReq
	if !decodeValid(w, r, &req) {
		return
	}

	u, err := s.Store.Update(r.Context(), chi.URLParam(r, "id"), Draft{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	})
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, u)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Store.Delete(r.Context(), id); err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}

	if s.Log != nil {
		s.Log.Info("user deleted", zap.String("user_id", id))
	}
	kit.WriteMessage(w, http.StatusOK, "User deleted successfully")
}

func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := kit.DecodeJSON(w, r, dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return false
	}
	if fields, err := kit.Validate(dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid request", fields)
		return false
	}
	return true
}
