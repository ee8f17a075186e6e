package companies

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/logging"
)

// ColumnsConfigKey is where the per-user column layout is persisted.
const ColumnsConfigKey = "erxes_company_columns_config"

// Store is the durable key-value store view configuration lives in.
// An absent key reports ok == false.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// ViewConfig resolves the list columns. A locally persisted layout
// overrides the remote default entirely; the two are never merged.
type ViewConfig struct {
	store  Store
	key    string
	logger *slog.Logger
}

// NewViewConfig wires a ViewConfig to store under ColumnsConfigKey.
func NewViewConfig(store Store, logger *slog.Logger) *ViewConfig {
	if logger == nil {
		logger = logging.Default()
	}
	return &ViewConfig{store: store, key: ColumnsConfigKey, logger: logger}
}

// Resolve returns the persisted layout when one is stored, otherwise
// remoteDefault. Unreadable or corrupt stored values fall back to the
// default and are logged.
func (v *ViewConfig) Resolve(ctx context.Context, remoteDefault []api.Column) []api.Column {
	fallback := remoteDefault
	if fallback == nil {
		fallback = []api.Column{}
	}
	if v.store == nil {
		return fallback
	}
	raw, ok, err := v.store.Get(ctx, v.key)
	if err != nil {
		v.logger.Warn("read columns config failed", logging.ErrAttrs(err)...)
		return fallback
	}
	if !ok || raw == "" {
		return fallback
	}
	var cols []api.Column
	if err := json.Unmarshal([]byte(raw), &cols); err != nil {
		v.logger.Warn("stored columns config is corrupt", "key", v.key, "error", err.Error())
		return fallback
	}
	return cols
}

// Stored reports the persisted layout, if any.
func (v *ViewConfig) Stored(ctx context.Context) ([]api.Column, bool, error) {
	if v.store == nil {
		return nil, false, nil
	}
	raw, ok, err := v.store.Get(ctx, v.key)
	if err != nil || !ok || raw == "" {
		return nil, false, err
	}
	var cols []api.Column
	if err := json.Unmarshal([]byte(raw), &cols); err != nil {
		return nil, false, goerr.Wrap(err, "decode columns config", goerr.V("key", v.key))
	}
	return cols, true, nil
}

// Save persists cols as the user's layout.
func (v *ViewConfig) Save(ctx context.Context, cols []api.Column) error {
	if v.store == nil {
		return goerr.New("no view config store configured")
	}
	if cols == nil {
		cols = []api.Column{}
	}
	data, err := json.Marshal(cols)
	if err != nil {
		return goerr.Wrap(err, "encode columns config")
	}
	if err := v.store.Set(ctx, v.key, string(data)); err != nil {
		return goerr.Wrap(err, "save columns config", goerr.V("key", v.key))
	}
	return nil
}

// Reset drops the persisted layout so Resolve returns the remote default.
func (v *ViewConfig) Reset(ctx context.Context) error {
	if v.store == nil {
		return nil
	}
	if err := v.store.Set(ctx, v.key, ""); err != nil {
		return goerr.Wrap(err, "reset columns config", goerr.V("key", v.key))
	}
	return nil
}
