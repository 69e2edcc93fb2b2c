package catalog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"DemoShop/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/api/products", func(rr chi.Router) {
		rr.Get("/", s.list)
		rr.Post("/", s.create)
		rr.Get("/categories", s.categories)
		rr.Get("/search", s.search)
		rr.Get("/category/{category}", s.listByCategory)
		rr.Get("/{id}", s.get)
		rr.Put("/{id}", s.update)
		rr.Delete("/{id}", s.delete)
		rr.Put("/{id}/stock", s.updateStock)
	})

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
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

type productReq struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Description   string           `json:"description" validate:"max=2000"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	Category      string           `json:"category" validate:"required,max=100"`
	StockQuantity *int             `json:"stockQuantity" validate:"required"`
	ImageURL      string           `json:"imageUrl" validate:"omitempty,url"`
}

func (req productReq) draft() Draft {
	return Draft{
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		Price:         *req.Price,
		Category:      strings.TrimSpace(req.Category),
		StockQuantity: *req.StockQuantity,
		ImageURL:      strings.TrimSpace(req.ImageURL),
	}
}

// productUpdateReq also accepts the read-only fields of a fetched product,
// so a GET response can be sent back as is. They are never applied.
type productUpdateReq struct {
	productReq

	ID        string     `json:"id"`
	Active    *bool      `json:"active"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

type stockReq struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) listByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("keyword") {
		kit.WriteError(w, r, http.StatusBadRequest, "keyword required", nil)
		return
	}

	products, err := s.Store.Search(r.Context(), q.Get("keyword"))
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.Store.Categories(r.Context())
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, cats)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if !decodeProduct(w, r, &req) {
		return
	}

	p, err := s.Store.Create(r.Context(), req.draft())
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var req productUpdateReq
	if !decodeProduct(w, r, &req) {
		return
	}

	p, err := s.Store.Update(r.Context(), chi.URLParam(r, "id"), req.draft())
	if err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.SoftDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	kit.WriteMessage(w, http.StatusOK, "Product deleted successfully")
}

func (s *Server) updateStock(w http.ResponseWriter, r *http.Request) {
	var req stockReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if fields, err := kit.Validate(req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "valid stock quantity is required", fields)
		return
	}

	if _, err := s.Store.UpdateStock(r.Context(), chi.URLParam(r, "id"), *req.Quantity); err != nil {
		kit.WriteAppError(w, r, s.Log, err)
		return
	}
	kit.WriteMessage(w, http.StatusOK, "Stock updated successfully")
}

func decodeProduct(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := kit.DecodeJSON(w, r, dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return false
	}
	if fields, err := kit.Validate(dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product", fields)
		return false
	}
	return true
}
