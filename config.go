package ibanledger

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		ConnectionString string `yaml:"conn_str"`
	} `yaml:"database"`
	Iban struct {
		Country string `yaml:"country"`
	} `yaml:"iban"`
	Limits      LimitsConfig      `yaml:"limits"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// LimitsConfig carries the static business ceilings. Amounts are decimal
// strings to avoid float truncation in YAML.
type LimitsConfig struct {
	Currencies           []string `yaml:"currencies"`
	MaxAccountAmount     string   `yaml:"max_account_amount"`
	MaxTransactionAmount string   `yaml:"max_transaction_amount"`
}

// ConcurrencyConfig sets per-operation in-flight request caps for the load
// shedding middleware.
type ConcurrencyConfig struct {
	CreateAccount int64 `yaml:"create_account"`
	Charge        int64 `yaml:"charge"`
	Transfer      int64 `yaml:"transfer"`
	Read          int64 `yaml:"read"`
	Statement     int64 `yaml:"statement"`
}
