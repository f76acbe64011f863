// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/client/network"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/errors"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
	"github.com/hashgraph/hedera-sdk-go-exec/pkg/keys"
)

// Config is the file form of a client.
type Config struct {
	Operator      *OperatorConfig     `json:"operator,omitempty" yaml:"operator,omitempty" mapstructure:"operator"`
	Network       NetworkConfig       `json:"network" yaml:"network" mapstructure:"network"`
	MirrorNetwork MirrorNetworkConfig `json:"mirrorNetwork,omitempty" yaml:"mirrorNetwork,omitempty" mapstructure:"mirrorNetwork"`
	LedgerID      string              `json:"ledgerId,omitempty" yaml:"ledgerId,omitempty" mapstructure:"ledgerId" validate:"omitempty,hedera-ledger"`

	MaxAttempts    int           `json:"maxAttempts,omitempty" yaml:"maxAttempts,omitempty" mapstructure:"maxAttempts" validate:"gte=0"`
	MinBackoff     time.Duration `json:"minBackoff,omitempty" yaml:"minBackoff,omitempty" mapstructure:"minBackoff" validate:"gte=0"`
	MaxBackoff     time.Duration `json:"maxBackoff,omitempty" yaml:"maxBackoff,omitempty" mapstructure:"maxBackoff" validate:"gte=0"`
	RequestTimeout time.Duration `json:"requestTimeout,omitempty" yaml:"requestTimeout,omitempty" mapstructure:"requestTimeout" validate:"gte=0"`
	GRPCTimeout    time.Duration `json:"grpcTimeout,omitempty" yaml:"grpcTimeout,omitempty" mapstructure:"grpcTimeout" validate:"gte=0"`

	// Fees are in tinybars.
	DefaultMaxTransactionFee *int64 `json:"defaultMaxTransactionFee,omitempty" yaml:"defaultMaxTransactionFee,omitempty" mapstructure:"defaultMaxTransactionFee" validate:"omitempty,gte=0"`
	DefaultMaxQueryPayment   *int64 `json:"defaultMaxQueryPayment,omitempty" yaml:"defaultMaxQueryPayment,omitempty" mapstructure:"defaultMaxQueryPayment" validate:"omitempty,gte=0"`

	AutoValidateChecksums    bool  `json:"autoValidateChecksums,omitempty" yaml:"autoValidateChecksums,omitempty" mapstructure:"autoValidateChecksums"`
	RegenerateTransactionIDs *bool `json:"regenerateTransactionIds,omitempty" yaml:"regenerateTransactionIds,omitempty" mapstructure:"regenerateTransactionIds"`
}

type OperatorConfig struct {
	AccountID  string `json:"accountId" yaml:"accountId" mapstructure:"accountId" validate:"required,hedera-entity"`
	PrivateKey string `json:"privateKey" yaml:"privateKey" mapstructure:"privateKey" validate:"required,hedera-private-key"`
}

// NetworkConfig is either the name of a well-known network or a map of node
// address to node account ID.
type NetworkConfig struct {
	Name  string            `validate:"omitempty,oneof=mainnet testnet previewnet"`
	Nodes map[string]string `validate:"dive,keys,required,endkeys,hedera-entity"`
}

// MirrorNetworkConfig is either the name of a well-known network or a list of
// mirror node addresses.
type MirrorNetworkConfig struct {
	Name      string   `validate:"omitempty,oneof=mainnet testnet previewnet"`
	Addresses []string `validate:"dive,required"`
}

func (n NetworkConfig) MarshalJSON() ([]byte, error) {
	if n.Name != "" {
		return json.Marshal(n.Name)
	}
	return json.Marshal(n.Nodes)
}

func (n *NetworkConfig) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte(`"`)) {
		return json.Unmarshal(b, &n.Name)
	}
	return json.Unmarshal(b, &n.Nodes)
}

func (n NetworkConfig) MarshalYAML() (interface{}, error) {
	if n.Name != "" {
		return n.Name, nil
	}
	return n.Nodes, nil
}

func (n MirrorNetworkConfig) IsZero() bool { return n.Name == "" && len(n.Addresses) == 0 }

func (n MirrorNetworkConfig) MarshalJSON() ([]byte, error) {
	if n.Name != "" {
		return json.Marshal(n.Name)
	}
	return json.Marshal(n.Addresses)
}

func (n *MirrorNetworkConfig) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte(`"`)) {
		return json.Unmarshal(b, &n.Name)
	}
	return json.Unmarshal(b, &n.Addresses)
}

func (n MirrorNetworkConfig) MarshalYAML() (interface{}, error) {
	if n.Name != "" {
		return n.Name, nil
	}
	return n.Addresses, nil
}

// NewValidator returns a validator with the client's custom validations.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	err := registerString(v, "hedera-entity", func(s string) error {
		_, err := hedera.ParseEntityID(s)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = registerString(v, "hedera-ledger", func(s string) error {
		_, err := hedera.ParseLedgerID(s)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = registerString(v, "hedera-private-key", func(s string) error {
		_, err := keys.ParsePrivateKey(s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func registerString(v *validator.Validate, tag string, parse func(string) error) error {
	return v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			panic(fmt.Errorf("%q is not a string", fl.FieldName()))
		}
		return parse(fl.Field().String()) == nil
	})
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	v, err := NewValidator()
	if err != nil {
		return errors.InternalError.WithFormat("create validator: %w", err)
	}

	err = v.Struct(c)
	if err != nil {
		return errors.BadRequest.WithFormat("invalid client config: %w", err)
	}

	switch {
	case c.Network.Name == "" && len(c.Network.Nodes) == 0:
		return errors.BadRequest.With("invalid client config: network is required")
	case c.Network.Name != "" && len(c.Network.Nodes) > 0:
		return errors.BadRequest.With("invalid client config: network must be a name or a map, not both")
	case c.MinBackoff > 0 && c.MaxBackoff > 0 && c.MinBackoff > c.MaxBackoff:
		return errors.BadRequest.WithFormat("invalid client config: minimum backoff %v is greater than the maximum %v", c.MinBackoff, c.MaxBackoff)
	}
	return nil
}

// keyDelimiter replaces viper's default delimiter, since node addresses
// contain dots.
const keyDelimiter = "|"

func newViper() *viper.Viper {
	return viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
}

// LoadConfig reads a JSON, YAML, or TOML client configuration file.
func LoadConfig(file string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(file)
	err := v.ReadInConfig()
	if err != nil {
		return nil, errors.BadRequest.WithFormat("read %s: %w", file, err)
	}
	return decodeConfig(v)
}

// ParseConfig parses a client configuration of the given type (json, yaml,
// or toml).
func ParseConfig(typ string, b []byte) (*Config, error) {
	v := newViper()
	v.SetConfigType(typ)
	err := v.ReadConfig(bytes.NewReader(b))
	if err != nil {
		return nil, errors.BadRequest.WithFormat("read config: %w", err)
	}
	return decodeConfig(v)
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	cfg := new(Config)
	err := v.Unmarshal(cfg, viper.DecodeHook(decodeHook))
	if err != nil {
		return nil, errors.BadRequest.WithFormat("unmarshal config: %w", err)
	}
	return cfg, nil
}

var (
	durationType      = reflect.TypeOf(time.Duration(0))
	networkType       = reflect.TypeOf(NetworkConfig{})
	mirrorNetworkType = reflect.TypeOf(MirrorNetworkConfig{})
)

// decodeHook decodes the values viper cannot decode on its own: durations
// and the either-or network fields.
func decodeHook(_, to reflect.Type, data interface{}) (interface{}, error) {
	switch to {
	case durationType:
		if s, ok := data.(string); ok {
			return time.ParseDuration(s)
		}

	case networkType:
		switch data := data.(type) {
		case string:
			return NetworkConfig{Name: strings.ToLower(data)}, nil
		case map[string]interface{}:
			nodes := make(map[string]string, len(data))
			for addr, id := range data {
				nodes[addr] = fmt.Sprint(id)
			}
			return NetworkConfig{Nodes: nodes}, nil
		}

	case mirrorNetworkType:
		switch data := data.(type) {
		case string:
			return MirrorNetworkConfig{Name: strings.ToLower(data)}, nil
		case []interface{}:
			addrs := make([]string, 0, len(data))
			for _, addr := range data {
				addrs = append(addrs, fmt.Sprint(addr))
			}
			return MirrorNetworkConfig{Addresses: addrs}, nil
		}
	}
	return data, nil
}

// FromConfigJSON returns a client for a JSON configuration such as
//
//	{
//	  "operator": {"accountId": "0.0.1001", "privateKey": "302e..."},
//	  "network": "testnet"
//	}
func FromConfigJSON(b []byte, opts ...network.Option) (*Client, error) {
	cfg, err := ParseConfig("json", b)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg, opts...)
}

// FromConfig returns a client for the configuration.
func FromConfig(cfg *Config, opts ...network.Option) (*Client, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	var c *Client
	if cfg.Network.Name != "" {
		c, err = ForName(cfg.Network.Name, opts...)
	} else {
		var addrs map[string]hedera.AccountID
		addrs, err = parseNodes(cfg.Network.Nodes)
		if err == nil {
			c, err = ForNetwork(addrs, opts...)
		}
	}
	if err != nil {
		return nil, err
	}

	err = applyConfig(c, cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func parseNodes(nodes map[string]string) (map[string]hedera.AccountID, error) {
	addrs := make(map[string]hedera.AccountID, len(nodes))
	for addr, s := range nodes {
		id, err := hedera.ParseAccountID(s)
		if err != nil {
			return nil, errors.BadRequest.WithFormat("node %s: %w", addr, err)
		}
		addrs[addr] = id
	}
	return addrs, nil
}

func applyConfig(c *Client, cfg *Config) error {
	switch {
	case cfg.MirrorNetwork.Name != "":
		_, mirror, _, err := network.Named(cfg.MirrorNetwork.Name)
		if err != nil {
			return err
		}
		c.SetMirrorNetwork([]string{mirror})
	case len(cfg.MirrorNetwork.Addresses) > 0:
		c.SetMirrorNetwork(cfg.MirrorNetwork.Addresses)
	}

	if cfg.Operator != nil {
		id, err := hedera.ParseAccountID(cfg.Operator.AccountID)
		if err != nil {
			return errors.BadRequest.WithFormat("operator: %w", err)
		}
		key, err := keys.ParsePrivateKey(cfg.Operator.PrivateKey)
		if err != nil {
			return errors.BadRequest.WithFormat("operator: %w", err)
		}
		c.SetOperator(id, key)
	}

	if cfg.LedgerID != "" {
		id, err := hedera.ParseLedgerID(cfg.LedgerID)
		if err != nil {
			return err
		}
		c.SetLedgerID(id)
	}

	if cfg.MaxAttempts > 0 {
		c.SetMaxAttempts(cfg.MaxAttempts)
	}
	if cfg.MaxBackoff > 0 {
		err := c.SetMaxBackoff(cfg.MaxBackoff)
		if err != nil {
			return err
		}
	}
	if cfg.MinBackoff > 0 {
		err := c.SetMinBackoff(cfg.MinBackoff)
		if err != nil {
			return err
		}
	}
	c.SetRequestTimeout(cfg.RequestTimeout)
	c.SetGRPCTimeout(cfg.GRPCTimeout)

	if cfg.DefaultMaxTransactionFee != nil {
		err := c.SetDefaultMaxTransactionFee(hedera.Tinybars(*cfg.DefaultMaxTransactionFee))
		if err != nil {
			return err
		}
	}
	if cfg.DefaultMaxQueryPayment != nil {
		err := c.SetDefaultMaxQueryPayment(hedera.Tinybars(*cfg.DefaultMaxQueryPayment))
		if err != nil {
			return err
		}
	}

	c.SetAutoValidateChecksums(cfg.AutoValidateChecksums)
	if cfg.RegenerateTransactionIDs != nil {
		c.SetDefaultRegenerateTransactionID(*cfg.RegenerateTransactionIDs)
	}
	return nil
}

// Config returns the configuration of the client. The operator's private key
// cannot be recovered, so the operator is omitted.
func (c *Client) Config() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg := &Config{
		MaxAttempts:           c.maxAttempts,
		MinBackoff:            c.minBackoff,
		MaxBackoff:            c.maxBackoff,
		RequestTimeout:        c.requestTimeout,
		GRPCTimeout:           c.grpcTimeout,
		AutoValidateChecksums: c.autoValidateChecksums,
	}
	regenerate := c.regenerate
	cfg.RegenerateTransactionIDs = &regenerate
	if c.ledgerID != nil {
		cfg.LedgerID = c.ledgerID.String()
	}
	if c.maxTransactionFee != nil {
		v := c.maxTransactionFee.AsTinybars()
		cfg.DefaultMaxTransactionFee = &v
	}
	if c.maxQueryPayment != nil {
		v := c.maxQueryPayment.AsTinybars()
		cfg.DefaultMaxQueryPayment = &v
	}
	cfg.MirrorNetwork.Addresses = append(cfg.MirrorNetwork.Addresses, c.mirrorNetwork...)

	cfg.Network.Nodes = map[string]string{}
	for addr, id := range c.Network() {
		cfg.Network.Nodes[addr] = id.String()
	}
	return cfg
}
