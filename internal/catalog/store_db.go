package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"

	"Palaniappa/internal/schema"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

//go:embed schema.sql
var schemaSQL string

const productColumns = `
	id, name, description, category, price_inr, price_bhd,
	weight, stock_quantity, image_urls, is_new_arrival, is_featured`

var _ Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens a pool through the pgx database/sql driver and checks
// the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := NewPostgresStore(db)
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, schemaSQL)
		return err
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) GetAllProducts(ctx context.Context) ([]schema.Product, error) {
	return s.queryProducts(ctx, `SELECT`+productColumns+` FROM products ORDER BY position ASC`)
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id string) (schema.Product, bool, error) {
	var (
		p   schema.Product
		err error
	)

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		row := s.db.QueryRowContext(ctx, `SELECT`+productColumns+` FROM products WHERE id = $1`, id)
		p, err = scanProduct(row, pgtype.NewMap())
		return err
	})

	if errors.Is(err, sql.ErrNoRows) {
		return schema.Product{}, false, nil
	}
	if err != nil {
		return schema.Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) GetProductsByCategory(ctx context.Context, category string) ([]schema.Product, error) {
	return s.queryProducts(ctx, `SELECT`+productColumns+` FROM products WHERE category = $1 ORDER BY position ASC`, category)
}

func (s *PostgresStore) GetFeaturedProducts(ctx context.Context) ([]schema.Product, error) {
	return s.queryProducts(ctx, `SELECT`+productColumns+` FROM products WHERE is_featured ORDER BY position ASC`)
}

func (s *PostgresStore) GetNewArrivals(ctx context.Context) ([]schema.Product, error) {
	return s.queryProducts(ctx, `SELECT`+productColumns+` FROM products WHERE is_new_arrival ORDER BY position ASC`)
}

func (s *PostgresStore) SearchProducts(ctx context.Context, query string) ([]schema.Product, error) {
	return s.queryProducts(ctx, `
		SELECT`+productColumns+`
		FROM products
		WHERE strpos(lower(name), lower($1)) > 0
		   OR strpos(lower(description), lower($1)) > 0
		   OR strpos(lower(category), lower($1)) > 0
		ORDER BY position ASC`, query)
}

func (s *PostgresStore) CreateProduct(ctx context.Context, np schema.NewProduct) (schema.Product, error) {
	p := np.WithID(uuid.NewString())
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (id, name, description, category, price_inr, price_bhd,
				weight, stock_quantity, image_urls, is_new_arrival, is_featured)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, p.ID, p.Name, p.Description, p.Category, p.PriceInr, p.PriceBhd,
			p.Weight, p.StockQuantity, p.ImageURLs, p.IsNewArrival, p.IsFeatured)
		return err
	})
	if err != nil {
		return schema.Product{}, err
	}
	return p, nil
}

// UpdateProduct applies the patch in a single statement; absent fields are
// sent as NULL and keep their stored value.
func (s *PostgresStore) UpdateProduct(ctx context.Context, id string, patch schema.ProductPatch) (schema.Product, bool, error) {
	var images any
	if patch.ImageURLs != nil {
		images = *patch.ImageURLs
	}

	var (
		p   schema.Product
		err error
	)
	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		row := s.db.QueryRowContext(ctx, `
			UPDATE products SET
				name           = COALESCE($2::text, name),
				description    = COALESCE($3::text, description),
				category       = COALESCE($4::text, category),
				price_inr      = COALESCE($5::text, price_inr),
				price_bhd      = COALESCE($6::text, price_bhd),
				weight         = COALESCE($7::text, weight),
				stock_quantity = COALESCE($8::integer, stock_quantity),
				image_urls     = COALESCE($9::text[], image_urls),
				is_new_arrival = COALESCE($10::boolean, is_new_arrival),
				is_featured    = COALESCE($11::boolean, is_featured)
			WHERE id = $1
			RETURNING`+productColumns,
			id, patch.Name, patch.Description, patch.Category, patch.PriceInr, patch.PriceBhd,
			patch.Weight, patch.StockQuantity, images, patch.IsNewArrival, patch.IsFeatured)
		p, err = scanProduct(row, pgtype.NewMap())
		return err
	})

	if errors.Is(err, sql.ErrNoRows) {
		return schema.Product{}, false, nil
	}
	if err != nil {
		return schema.Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) (bool, error) {
	var n int64
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (schema.User, bool, error) {
	return s.queryUser(ctx, `SELECT id, username, pass_hash FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (schema.User, bool, error) {
	return s.queryUser(ctx, `SELECT id, username, pass_hash FROM users WHERE username = $1`, username)
}

func (s *PostgresStore) CreateUser(ctx context.Context, nu schema.NewUser) (schema.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return schema.User{}, err
	}
	u := schema.User{ID: uuid.NewString(), Username: nu.Username, PasswordHash: hash}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO users (id, username, pass_hash)
			VALUES ($1, $2, $3)
		`, u.ID, u.Username, u.PasswordHash)
		return err
	})
	if isUniqueViolation(err) {
		return schema.User{}, ErrUsernameTaken
	}
	if err != nil {
		return schema.User{}, err
	}
	return u, nil
}

func (s *PostgresStore) queryUser(ctx context.Context, q string, arg string) (schema.User, bool, error) {
	var u schema.User
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Username, &u.PasswordHash)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return schema.User{}, false, nil
	}
	if err != nil {
		return schema.User{}, false, err
	}
	return u, true, nil
}

func (s *PostgresStore) queryProducts(ctx context.Context, q string, args ...any) ([]schema.Product, error) {
	var out []schema.Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		m := pgtype.NewMap()
		out = make([]schema.Product, 0, 16)
		for rows.Next() {
			p, err := scanProduct(rows, m)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, m *pgtype.Map) (schema.Product, error) {
	var (
		p      schema.Product
		weight sql.NullString
		images []string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.PriceInr, &p.PriceBhd,
		&weight, &p.StockQuantity, m.SQLScanner(&images), &p.IsNewArrival, &p.IsFeatured)
	if err != nil {
		return schema.Product{}, err
	}
	if weight.Valid {
		w := weight.String
		p.Weight = &w
	}
	if images == nil {
		images = []string{}
	}
	p.ImageURLs = images
	return p, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
