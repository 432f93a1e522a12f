package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Palaniappa/internal/schema"
	"Palaniappa/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger

	// WriteLimiter guards the mutating routes when set.
	WriteLimiter *kit.IPRateLimiter
	// Mutations counts successful creates, updates and deletes when set.
	Mutations *MutationCounter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			s.logger().Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/products", func(pr chi.Router) {
		pr.Get("/", s.list)
		pr.Get("/search", s.search)
		pr.Get("/featured/all", s.featured)
		pr.Get("/new-arrivals/all", s.newArrivals)
		pr.Get("/category/{category}", s.byCategory)
		pr.Get("/{id}", s.get)

		pr.Group(func(wr chi.Router) {
			if s.WriteLimiter != nil {
				wr.Use(s.WriteLimiter.Middleware)
			}
			wr.Post("/", s.create)
			wr.Patch("/{id}", s.update)
			wr.Delete("/{id}", s.remove)
		})
	})

	return r
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	opts, ok := listOptions(w, r)
	if !ok {
		return
	}
	products, err := s.Store.GetAllProducts(r.Context())
	s.writeList(w, r, "list products", products, opts, err)
}

func (s *Server) byCategory(w http.ResponseWriter, r *http.Request) {
	opts, ok := listOptions(w, r)
	if !ok {
		return
	}
	products, err := s.Store.GetProductsByCategory(r.Context(), chi.URLParam(r, "category"))
	s.writeList(w, r, "list category", products, opts, err)
}

func (s *Server) featured(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.GetFeaturedProducts(r.Context())
	s.writeList(w, r, "list featured", products, nil, err)
}

func (s *Server) newArrivals(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.GetNewArrivals(r.Context())
	s.writeList(w, r, "list new arrivals", products, nil, err)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "q required", nil)
		return
	}
	products, err := s.Store.SearchProducts(r.Context(), q)
	s.writeList(w, r, "search products", products, nil, err)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.GetProductByID(r.Context(), id)
	if err != nil {
		s.logger().Error("get product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var np schema.NewProduct
	if err := kit.DecodeJSON(w, r, &np); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if res := schema.ValidateNewProduct(np); !res.Valid {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product", res.Errors)
		return
	}

	p, err := s.Store.CreateProduct(r.Context(), np)
	if err != nil {
		s.logger().Error("create product failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.Mutations.inc(opCreate)
	s.logger().Info("product created", zap.String("id", p.ID), zap.String("category", p.Category))
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch schema.ProductPatch
	if err := kit.DecodeJSON(w, r, &patch); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if res := schema.ValidateProductPatch(patch); !res.Valid {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product", res.Errors)
		return
	}

	p, ok, err := s.Store.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		s.logger().Error("update product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	s.Mutations.inc(opUpdate)
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.Store.DeleteProduct(r.Context(), id)
	if err != nil {
		s.logger().Error("delete product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !deleted {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	s.Mutations.inc(opDelete)
	w.WriteHeader(http.StatusNoContent)
}

// listOptions parses ?q=, ?price= and ?sort=. It writes a 400 and reports
// false on an unknown value.
func listOptions(w http.ResponseWriter, r *http.Request) (*ListOptions, bool) {
	q := r.URL.Query()

	band, err := ParsePriceBand(q.Get("price"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}
	sort, err := ParseSortOption(q.Get("sort"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}

	if !q.Has("q") && !q.Has("price") && !q.Has("sort") {
		return nil, true
	}
	return &ListOptions{Query: q.Get("q"), Price: band, Sort: sort}, true
}

func (s *Server) writeList(w http.ResponseWriter, r *http.Request, op string, products []schema.Product, opts *ListOptions, err error) {
	if err != nil {
		s.logger().Error(op+" failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if opts != nil {
		products = opts.Apply(products)
	}
	if products == nil {
		products = []schema.Product{}
	}
	kit.WriteJSON(w, http.StatusOK, products)
}
