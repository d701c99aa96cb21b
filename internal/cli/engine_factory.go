package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/pkg/adapters/file"
	"github.com/aretw0/formwork/pkg/adapters/memory"
	"github.com/aretw0/formwork/pkg/adapters/redis"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/persistence/middleware"
	"github.com/aretw0/formwork/pkg/ports"
)

// EngineOptions gathers the flags shared by the commands that run forms.
type EngineOptions struct {
	// Dir holds the form definitions.
	Dir string
	// RedisURL selects the redis session store (and distributed locking).
	RedisURL string
	// SessionDir selects the file session store when RedisURL is empty.
	// Sessions stay in memory when both are empty.
	SessionDir string
	// SessionTTL expires redis sessions; zero keeps them forever.
	SessionTTL time.Duration
	// SessionKey encrypts stored answers (32 bytes, hex or base64).
	SessionKey      string
	// DefaultNextPath overrides where pages without edges lead.
	DefaultNextPath string
	Logger          *slog.Logger
	Hooks           domain.LifecycleHooks
}

// Runtime is an engine together with the resources it owns.
type Runtime struct {
	Engine *formwork.Engine
	Store  ports.StateStore
	close  func() error
}

// Close releases the session store connection, if any.
func (r *Runtime) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// NewStore opens the session store selected by opts, encrypted when a
// session key is set.
func NewStore(opts EngineOptions) (ports.StateStore, func() error, error) {
	store, closeStore, err := openStore(opts)
	if err != nil {
		return nil, nil, err
	}
	return wrapOpened(store, closeStore, opts.SessionKey)
}

func wrapOpened(store ports.StateStore, closeStore func() error, sessionKey string) (ports.StateStore, func() error, error) {
	wrapped, err := WrapStore(store, sessionKey, nil)
	if err != nil {
		if closeStore != nil {
			_ = closeStore()
		}
		return nil, nil, err
	}
	return wrapped, closeStore, nil
}

// WrapStore adds encryption when sessionKey is set and masks the answers
// matching redact on Load.
func WrapStore(store ports.StateStore, sessionKey string, redact []string) (ports.StateStore, error) {
	var mws []middleware.Middleware
	if len(redact) > 0 {
		mw, err := middleware.NewPIIMiddleware(redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if sessionKey != "" {
		key, err := middleware.ParseKey(sessionKey)
		if err != nil {
			return nil, fmt.Errorf("session key: %w", err)
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(store, mws...), nil
}

func openStore(opts EngineOptions) (ports.StateStore, func() error, error) {
	switch {
	case opts.RedisURL != "":
		var storeOpts []redis.Option
		if opts.SessionTTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(opts.SessionTTL))
		}
		store, err := redis.NewFromURL(opts.RedisURL, storeOpts...)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case opts.SessionDir != "":
		return file.NewStore(opts.SessionDir), nil, nil
	}
	return memory.NewStore(), nil, nil
}

// NewEngine builds an engine with the configured store and publishes every
// definition found in opts.Dir.
func NewEngine(ctx context.Context, opts EngineOptions) (*Runtime, error) {
	raw, closeStore, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := wrapOpened(raw, closeStore, opts.SessionKey)
	if err != nil {
		return nil, err
	}

	engineOpts := []formwork.Option{
		formwork.WithStore(store),
		formwork.WithLifecycleHooks(opts.Hooks),
	}
	if opts.Logger != nil {
		engineOpts = append(engineOpts, formwork.WithLogger(opts.Logger))
	}
	if opts.DefaultNextPath != "" {
		engineOpts = append(engineOpts, formwork.WithDefaultNextPath(opts.DefaultNextPath))
	}
	if rs, ok := raw.(*redis.Store); ok {
		engineOpts = append(engineOpts, formwork.WithLocker(redis.NewLocker(rs.Client(), redis.DefaultPrefix), 0))
	}

	rt := &Runtime{
		Engine: formwork.New(engineOpts...),
		Store:  store,
		close:  closeStore,
	}
	if err := rt.Engine.LoadAll(ctx, file.NewLoader(opts.Dir)); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to load forms from %s: %w", opts.Dir, err), rt.Close())
	}
	return rt, nil
}

// LoadModel builds the model of a single definition file.
func LoadModel(path string, opts ...formwork.Option) (*formwork.Engine, string, error) {
	id, ok := file.FormID(path)
	if !ok {
		return nil, "", fmt.Errorf("%s: unsupported file type (want %v)", path, file.Extensions)
	}
	def, err := file.ReadDefinition(path)
	if err != nil {
		return nil, "", err
	}
	eng := formwork.New(opts...)
	if err := eng.Publish(context.Background(), id, def); err != nil {
		return nil, "", err
	}
	return eng, id, nil
}
