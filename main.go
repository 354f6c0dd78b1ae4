package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/qaisjp/go-slack-irc/bridge"
)

func main() {
	config := flag.String("config", "", "Config file to read configuration stuff from")
	debugMode := flag.Bool("debug", false, "Debug mode? (false = use value from settings)")
	notls := flag.Bool("no-tls", false, "Avoids using TLS at all when connecting to IRC server")
	insecure := flag.Bool("insecure", false, "Skip TLS certificate verification? (INSECURE MODE) (false = use value from settings)")

	flag.Parse()

	if *config == "" {
		log.Fatalln("--config argument is required!")
		return
	}

	// Secrets may live in a .env file next to the binary
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warnln("could not load .env file")
	}

	viper := viper.New()
	ext := filepath.Ext(*config)
	configName := strings.TrimSuffix(filepath.Base(*config), ext)
	configType := strings.TrimPrefix(ext, ".")
	configPath := filepath.Dir(*config)
	viper.SetConfigName(configName)
	viper.SetConfigType(configType)
	viper.AddConfigPath(configPath)

	// i.e RELAY_SLACK_TOKEN overrides slack_token
	viper.SetEnvPrefix("relay")
	viper.AutomaticEnv()

	log.WithFields(log.Fields{
		"ConfigName": configName,
		"ConfigType": configType,
		"ConfigPath": configPath,
	}).Infoln("Loading configuration...")

	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalln(errors.Wrap(err, "could not read config"))
	}

	viper.SetDefault("irc_nick", bridge.DefaultNick)
	viper.SetDefault("irc_username", bridge.DefaultUsername)
	viper.SetDefault("sender_suffix", bridge.DefaultSenderSuffix)
	viper.SetDefault("nick_cache_size", bridge.DefaultNickCacheSize)
	viper.SetDefault("directory_ttl", bridge.DefaultDirectoryTTL)

	if !*debugMode {
		*debugMode = viper.GetBool("debug")
	}
	if !*notls {
		*notls = viper.GetBool("no_tls")
	}
	if !*insecure {
		*insecure = viper.GetBool("insecure")
	}
	silent := viper.GetBool("silent")

	SetLogLevel(*debugMode, silent)

	var channelMappings []bridge.ChannelPair
	if err := viper.UnmarshalKey("channels", &channelMappings); err != nil {
		log.Fatalln(errors.Wrap(err, "could not read channels"))
	}

	blacklist, err := bridge.CompileGlobs(viper.GetStringSlice("blacklist"))
	if err != nil {
		log.Fatalln(errors.Wrap(err, "could not read blacklist"))
	}

	dib, err := bridge.New(&bridge.Config{
		IRCServer:          viper.GetString("irc_server"),
		IRCServerPass:      viper.GetString("irc_pass"),
		IRCNick:            viper.GetString("irc_nick"),
		IRCUsername:        viper.GetString("irc_username"),
		NoTLS:              *notls,
		InsecureSkipVerify: *insecure,
		SlackToken:         viper.GetString("slack_token"),
		ChannelMappings:    channelMappings,
		Users:              viper.GetStringMapString("users"),
		SuppressHighlight:  viper.GetBool("suppress_highlight"),
		SenderSuffix:       viper.GetString("sender_suffix"),
		Blacklist:          blacklist,
		AutoOp:             viper.GetBool("auto_op"),
		NickCacheSize:      viper.GetInt("nick_cache_size"),
		DirectoryTTL:       viper.GetDuration("directory_ttl"),
		Debug:              *debugMode,
		Silent:             silent,
	})
	if err != nil {
		log.WithField("error", err).Fatalln("Go-Slack-IRC failed to initialise.")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the bot
	err = dib.Open()
	if err != nil {
		log.WithField("error", err).Fatalln("Go-Slack-IRC failed to start.")
		return
	}

	// Inform the user that things are happening!
	log.Infoln("Go-Slack-IRC is now running. Press Ctrl-C to exit.")

	// Start watching for live changes...
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.WithField("file", e.Name).Println("Configuration file has changed!")

		debug, quiet := viper.GetBool("debug"), viper.GetBool("silent")
		if debug != *debugMode || quiet != silent {
			log.Printf("Logging changed from debug=%v silent=%v to debug=%v silent=%v", *debugMode, silent, debug, quiet)
			*debugMode, silent = debug, quiet
			SetLogLevel(debug, quiet)
		}
	})

	g, ctx := errgroup.WithContext(ctx)

	if addr := viper.GetString("metrics_addr"); addr != "" {
		server := &http.Server{
			Addr:              addr,
			Handler:           metricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.WithField("addr", addr).Infoln("Serving metrics")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "metrics server failed")
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdown)
		})
	}

	// Watch for a shutdown signal
	g.Go(func() error {
		<-ctx.Done()

		log.Infoln("Shutting down Go-Slack-IRC...")

		// Cleanly close down the bridge.
		dib.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Errorln("Go-Slack-IRC stopped with an error")
		os.Exit(1)
	}
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// SetLogLevel picks the log level from the debug and silent toggles.
// Debug wins if both are set.
func SetLogLevel(debug, silent bool) {
	logger := log.StandardLogger()
	switch {
	case debug:
		logger.SetLevel(log.DebugLevel)
	case silent:
		logger.SetLevel(log.WarnLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}
