package command

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/gfwbrker/shadowsocks-munager/mu"
	"github.com/go-zoox/cli"
	"github.com/go-zoox/config"
	"github.com/go-zoox/fs"
	"github.com/go-zoox/logger"
	"github.com/goccy/go-json"
)

func panelFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "the filepath for node configuration",
			Aliases: []string{"c"},
			EnvVars: []string{"MU_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "node-id",
			Usage:   "node id registered in the panel",
			EnvVars: []string{"MU_NODE_ID"},
		},
		&cli.StringFlag{
			Name:    "url",
			Usage:   "panel base url, format: protocol://host[:port]/",
			EnvVars: []string{"MU_URL"},
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "mu api token",
			EnvVars: []string{"MU_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "ua",
			Usage:   "user agent sent to the panel",
			EnvVars: []string{"MU_UA"},
		},
	}, flags...)
}

func loadConfig(ctx *cli.Context) (*mu.Config, error) {
	var cfg mu.Config

	if filepath := ctx.String("config"); filepath != "" {
		if !fs.IsExist(filepath) {
			return nil, fmt.Errorf("config file not found at %s", filepath)
		}

		if err := config.Load(&cfg, &config.LoadOptions{
			FilePath: filepath,
		}); err != nil {
			return nil, fmt.Errorf("failed to load config file at %s: %v", filepath, err)
		}
	}

	if v := ctx.String("node-id"); v != "" {
		nodeID, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid node id: %v", err)
		}
		cfg.NodeID = nodeID
	}
	if v := ctx.String("url"); v != "" {
		cfg.URL = v
	}
	if v := ctx.String("token"); v != "" {
		cfg.Token = v
	}
	if v := ctx.String("ua"); v != "" {
		cfg.UA = v
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("panel url is required, use --url or sspanel_url in config")
	}

	return &cfg, nil
}

func newClient(ctx *cli.Context) (*mu.Client, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("panel: %s (node: %d)", cfg.URL, cfg.NodeID)

	return mu.New(cfg)
}

func printJSON(v any) error {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %v", err)
	}

	fmt.Println(string(bytes))
	return nil
}

func readJSONFile(filepath string, v any) error {
	if !fs.IsExist(filepath) {
		return fmt.Errorf("data file not found at %s", filepath)
	}

	raw, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", filepath, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid json in %s: %v", filepath, err)
	}

	return nil
}

func parseForm(form string) (url.Values, error) {
	values, err := url.ParseQuery(form)
	if err != nil {
		return nil, fmt.Errorf("invalid form, format: key=value&key2=value2: %v", err)
	}

	return values, nil
}

func parseAmount(amount string) (int, error) {
	n, err := strconv.Atoi(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %v", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid amount: %d", n)
	}

	return n, nil
}
