// Package config loads woosync settings from flags, environment variables,
// and an optional .env file, in that precedence order through Viper.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/woosuite/woosync/pkg/errors"
)

// Viper keys. CLI flags bind to these; the WC_* environment variables the
// original deployments already carry are registered as aliases.
const (
	KeyStoreURL       = "store_url"
	KeyConsumerKey    = "consumer_key"
	KeyConsumerSecret = "consumer_secret"
	KeyPageSize       = "page_size"
	KeyHTTPTimeout    = "http_timeout"
	KeyCostMetaKeys   = "cost_meta_keys"
)

// DefaultCostMetaKeys is the purchase-cost lookup order across the store
// plugins observed in the wild: ATUM, Cost of Goods, then the legacy custom
// key. First positive value wins. The order is plugin-stack specific, so it
// stays configurable rather than hard-coded.
var DefaultCostMetaKeys = []string{"_purchase_price", "_wc_cog_cost", "purchase_price"}

// Credentials is the key/secret pair plus store URL needed for every
// remote catalog request.
type Credentials struct {
	StoreURL       string
	ConsumerKey    string
	ConsumerSecret string
}

// Validate checks that no credential part is blank. It runs before any
// network call so credential problems never look like transport failures.
func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.StoreURL) == "" {
		missing = append(missing, "store URL (WC_URL)")
	}
	if strings.TrimSpace(c.ConsumerKey) == "" {
		missing = append(missing, "consumer key (WC_KEY)")
	}
	if strings.TrimSpace(c.ConsumerSecret) == "" {
		missing = append(missing, "consumer secret (WC_SECRET)")
	}
	if len(missing) > 0 {
		return errors.NewConfigError("credentials",
			"incomplete store credentials: missing "+strings.Join(missing, ", "),
			errors.ErrCredentialsRequired)
	}
	return nil
}

// Settings holds everything the sync engine needs at runtime.
type Settings struct {
	Credentials

	// PageSize is the per_page value for catalog listing requests.
	PageSize int

	// HTTPTimeout bounds each individual store request.
	HTTPTimeout time.Duration

	// CostMetaKeys is the ordered purchase-cost metadata lookup list.
	CostMetaKeys []string
}

// SetDefaults registers defaults and environment bindings on the given
// Viper instance. Call once before Load.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPageSize, 100)
	v.SetDefault(KeyHTTPTimeout, 30*time.Second)
	v.SetDefault(KeyCostMetaKeys, DefaultCostMetaKeys)

	// The WC_* names predate this tool; keep honoring them.
	_ = v.BindEnv(KeyStoreURL, "WC_URL")
	_ = v.BindEnv(KeyConsumerKey, "WC_KEY")
	_ = v.BindEnv(KeyConsumerSecret, "WC_SECRET")
}

// LoadEnvFile loads a .env file into the process environment if it exists.
// A missing file is not an error; explicit paths that fail to parse are.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		// Only surface problems with files that were explicitly requested.
		if path != ".env" {
			return errors.NewConfigError("env file", "failed to load "+path, err)
		}
	}
	return nil
}

// Load materializes Settings from the given Viper instance.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Credentials: Credentials{
			StoreURL:       strings.TrimSpace(v.GetString(KeyStoreURL)),
			ConsumerKey:    strings.TrimSpace(v.GetString(KeyConsumerKey)),
			ConsumerSecret: strings.TrimSpace(v.GetString(KeyConsumerSecret)),
		},
		PageSize:     v.GetInt(KeyPageSize),
		HTTPTimeout:  v.GetDuration(KeyHTTPTimeout),
		CostMetaKeys: v.GetStringSlice(KeyCostMetaKeys),
	}
	if s.PageSize < 1 {
		return nil, errors.NewConfigError("page_size", "page size must be at least 1", nil)
	}
	if s.HTTPTimeout <= 0 {
		s.HTTPTimeout = 30 * time.Second
	}
	if len(s.CostMetaKeys) == 0 {
		s.CostMetaKeys = DefaultCostMetaKeys
	}
	return s, nil
}
