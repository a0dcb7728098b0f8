package ports

import "context"

// Config is the daemon's fully-resolved configuration, mirroring the
// original's _DEFAULT_CONFIG dict: file paths, the REST API bind address,
// bus connection parameters, the market catalog host, and the name of the
// daemon's unprivileged account (User). User is loaded but not acted on: the
// daemon keeps running as the account it was started as after forking the
// Root Worker.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_filename"`

	User string `yaml:"user"`

	HostVersion string `yaml:"host_version"`

	Paths PathsConfig `yaml:"paths"`

	RestAPI  RestAPIConfig  `yaml:"rest_api"`
	Bus      BusConfig      `yaml:"bus"`
	Market   MarketConfig   `yaml:"market"`
	Auth     AuthConfig     `yaml:"auth"`
	Consul   ConsulConfig   `yaml:"consul"`
	Dispatch DispatchConfig `yaml:"dispatcher"`
}

// PathsConfig locates the directories the core manipulates.
type PathsConfig struct {
	ExtractDir  string `yaml:"extract_dir"`
	DownloadDir string `yaml:"download_dir"`
	MetadataDir string `yaml:"metadata_dir"`
	PluginsDir  string `yaml:"plugins_dir"`
}

// RestAPIConfig is the HTTP listen configuration.
type RestAPIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig mirrors the original's CORS toggle block.
type CORSConfig struct {
	Enabled bool     `yaml:"enabled"`
	Allowed []string `yaml:"allow_origins"`
}

// BusConfig is the AMQP connection the Progress Publisher uses.
type BusConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	VHost    string `yaml:"exchange_vhost"`
	Exchange string `yaml:"exchange_name"`
}

// MarketConfig is the catalog service's HTTP endpoint.
type MarketConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	HTTPS  bool   `yaml:"https"`
	Prefix string `yaml:"prefix"`
}

// AuthConfig is the identity service the TokenVerifier consults.
type AuthConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ConsulConfig and service discovery are ambient infra the core treats as an
// external collaborator; kept only so the config loader's defaults
// round-trip the original's shape.
type ConsulConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Enabled bool   `yaml:"enabled"`
}

// DispatchConfig tunes the Request Dispatcher's bounded worker pool,
// default parallelism 10.
type DispatchConfig struct {
	MaxParallelInstalls int `yaml:"max_parallel_installs"`
}

// ConfigLoader parses the daemon's YAML configuration file and applies
// defaults for anything unset.
type ConfigLoader interface {
	Load(ctx context.Context, path string) (*Config, error)
}

// DefaultConfig returns the daemon's built-in defaults, mirroring the
// original's _DEFAULT_CONFIG dict.
func DefaultConfig() *Config {
	return &Config{
		Debug:       false,
		LogLevel:    "info",
		LogFile:     "/var/log/wazo-plugind.log",
		User:        "wazo-plugind",
		HostVersion: "",
		Paths: PathsConfig{
			ExtractDir:  "/var/lib/wazo-plugind/tmp/extract",
			DownloadDir: "/var/lib/wazo-plugind/tmp/download",
			MetadataDir: "/usr/lib/wazo-plugind/plugins",
			PluginsDir:  "/usr/lib/wazo-plugind/plugins",
		},
		RestAPI: RestAPIConfig{
			Host: "127.0.0.1",
			Port: 9503,
			CORS: CORSConfig{Enabled: true, Allowed: []string{"*"}},
		},
		Bus: BusConfig{
			Host:     "localhost",
			Port:     5672,
			Username: "guest",
			Password: "guest",
			VHost:    "/",
			Exchange: "wazo-headers",
		},
		Market: MarketConfig{
			Host:   "market.wazo.community",
			Port:   443,
			HTTPS:  true,
			Prefix: "/api/market",
		},
		Auth: AuthConfig{
			Host: "localhost",
			Port: 9497,
		},
		Consul: ConsulConfig{
			Host:    "localhost",
			Port:    8500,
			Enabled: false,
		},
		Dispatch: DispatchConfig{
			MaxParallelInstalls: 10,
		},
	}
}
