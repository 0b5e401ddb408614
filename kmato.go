// Package kmato is the public API for the K-MATO food delivery client.
//
// This is the recommended import for most programs:
//
//	import "github.com/palanikalyan/K-MATO"
//
// Usage:
//
//	cfg, _ := config.LoadFromWorkingDir()
//	client, err := kmato.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.Session.Login(ctx, model.Credentials{Email: email, Password: pw})
//	client.Cart.AddItem(line, 2)
//	order, err := client.Checkout.PlaceOrder(ctx, addressID, "UPI", "")
package kmato

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/palanikalyan/K-MATO/internal/config"
	"github.com/palanikalyan/K-MATO/internal/kmerr"
	"github.com/palanikalyan/K-MATO/pkg/api"
	"github.com/palanikalyan/K-MATO/pkg/cart"
	"github.com/palanikalyan/K-MATO/pkg/feed"
	"github.com/palanikalyan/K-MATO/pkg/metrics"
	"github.com/palanikalyan/K-MATO/pkg/model"
	"github.com/palanikalyan/K-MATO/pkg/orders"
	"github.com/palanikalyan/K-MATO/pkg/pricing"
	"github.com/palanikalyan/K-MATO/pkg/session"
	"github.com/palanikalyan/K-MATO/pkg/storage"

	_ "github.com/glebarez/go-sqlite"
)

// Client bundles the client stores wired over shared storage and API
// transport. Build one with New, close it with Close.
type Client struct {
	Config   *config.Config
	Storage  storage.Store
	API      *api.Client
	Session  *session.Store
	Cart     *cart.Store
	Checkout *orders.Checkout
	Orders   *orders.Feed
	Feed     *feed.Channel

	db     *sql.DB
	logger *slog.Logger
}

type settings struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	httpc   *http.Client
	store   storage.Store
}

// Option configures New.
type Option func(*settings)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithMetrics registers Prometheus collectors on every component.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpc = hc }
}

// WithStore overrides the storage backend the config would select.
func WithStore(st storage.Store) Option {
	return func(s *settings) { s.store = st }
}

// New wires a Client from configuration. The storage backend is opened and
// the persisted session and cart are rehydrated before New returns.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = config.New()
	}

	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}

	c := &Client{Config: cfg, logger: s.logger}

	st := s.store
	if st == nil {
		var err error
		st, err = openStorage(cfg, c)
		if err != nil {
			return nil, err
		}
	}
	c.Storage = st

	// The API client needs the session's token, and the session needs the
	// API client. The token provider closes over the client to break the
	// cycle.
	c.API = api.New(cfg.APIURL,
		api.WithLogger(s.logger),
		api.WithMetrics(s.metrics),
		api.WithTokenProvider(func() string {
			if c.Session == nil {
				return ""
			}
			return c.Session.Token()
		}),
		apiHTTPOption(cfg, s.httpc),
	)

	c.Session = session.New(st, c.API, session.WithLogger(s.logger))
	c.Cart = cart.New(st, cart.WithLogger(s.logger), cart.WithMetrics(s.metrics))
	c.Checkout = orders.NewCheckout(c.Cart, c.Session, c.API, feesFromConfig(cfg), s.logger)
	c.Orders = orders.NewFeed(c.API, orders.WithLogger(s.logger), orders.WithMetrics(s.metrics))
	c.Feed = feed.New(cfg.WSURL, feed.WithLogger(s.logger), feed.WithMetrics(s.metrics))

	return c, nil
}

func apiHTTPOption(cfg *config.Config, hc *http.Client) api.Option {
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout()}
	}
	return api.WithHTTPClient(hc)
}

func feesFromConfig(cfg *config.Config) pricing.Fees {
	fees := pricing.DefaultFees()
	if cfg.Fees.DeliveryFee != nil {
		fees.DeliveryFee = *cfg.Fees.DeliveryFee
	}
	if cfg.Fees.PlatformFee != nil {
		fees.PlatformFee = *cfg.Fees.PlatformFee
	}
	if cfg.Fees.TaxRate != nil {
		fees.TaxRate = *cfg.Fees.TaxRate
	}
	return fees
}

func openStorage(cfg *config.Config, c *Client) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "file":
		return storage.NewFileStore(cfg.Storage.Path)
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.Storage.Path)
		if err != nil {
			return nil, kmerr.New("KM2001").Wrap(err)
		}
		st := storage.NewSQLStore(db)
		if err := st.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, err
		}
		c.db = db
		return st, nil
	default:
		return nil, kmerr.New("KM5002").
			WithDetail("unknown storage driver " + cfg.Storage.Driver)
	}
}

// WatchOrders connects the live-update channel, loads the order snapshot and
// folds patches into Orders until ctx is done. It returns after the initial
// snapshot; folding continues in the background.
func (c *Client) WatchOrders(ctx context.Context) error {
	if err := c.Feed.Connect(ctx); err != nil {
		return err
	}
	if err := c.Orders.Refresh(ctx); err != nil {
		return err
	}

	msgs, cancel := c.Feed.Subscribe()
	go func() {
		defer cancel()
		c.Orders.Run(ctx, msgs)
	}()
	return nil
}

// Close releases the live channel and the storage backend.
func (c *Client) Close() error {
	var first error
	if err := c.Feed.Close(); err != nil {
		first = err
	}
	if err := c.Storage.Close(); err != nil && first == nil {
		first = err
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Re-exported domain types, so most programs only import this package and
// model-free call sites stay tidy.
type (
	User        = model.User
	Credentials = model.Credentials
	CartLine    = model.CartLine
	Order       = model.Order
	Restaurant  = model.Restaurant
	MenuItem    = model.MenuItem
)
