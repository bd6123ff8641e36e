package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"simpleio/internal/adapters/asset"
	"simpleio/internal/adapters/cache"
	"simpleio/internal/adapters/codec"
	"simpleio/internal/adapters/file"
	"simpleio/internal/adapters/handler"
	"simpleio/internal/adapters/network"
	"simpleio/internal/adapters/preferences"
	"simpleio/internal/adapters/resource"
	"simpleio/internal/adapters/storage"
	"simpleio/internal/core/service"
	"simpleio/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func main() {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("simpleio")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "could not read config file: %v\n", err)
			os.Exit(1)
		}
	}

	logging.Setup(os.Stderr, viper.GetString("app.log_level"), viper.GetString("app.log_format"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	osFs := afero.NewOsFs()
	files := file.New(osFs, viper.GetString("storage.root"))
	imageCodec := codec.New()
	fetcher := network.NewFetcher(viper.GetDuration("http.timeout"))

	resources := resource.NewRegistry(os.DirFS(viper.GetString("resources.dir")))
	if err := resources.RegisterAll(viper.GetStringMapString("resources.ids")); err != nil {
		log.Fatal().Err(err).Msg("invalid resource table in config")
	}

	assets := asset.NewBundle("assets", os.DirFS(viper.GetString("assets.dir")))

	opts := []service.ResolverOption{
		service.WithResources(resources),
		service.WithAssets(assets),
		service.WithClasspath(asset.NewBundle("classpath", os.DirFS(viper.GetString("classpath.dir")))),
	}

	if viper.GetBool("cache.enabled") {
		loader, err := cache.NewLoader(fetcher, imageCodec, viper.GetInt("cache.capacity"), viper.GetDuration("cache.ttl"))
		if err != nil {
			log.Fatal().Err(err).Msg("failed initializing image cache")
		}
		defer loader.Close()
		opts = append(opts, service.WithCachingLoader(loader))
	}

	resolver := service.NewResolver(imageCodec, files, fetcher, opts...)
	prefs := preferences.NewStore(osFs, viper.GetString("preferences.dir"))

	store := service.NewStorage(files, storage.NewObjectStore(osFs, viper.GetString("storage.private_dir")))

	app := handler.NewCLI(resolver, store, prefs, handler.WithAssetText(assets)).Command("simpleio")
	if err := app.Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("command failed")
		cancel()
		os.Exit(1)
	}
}

func setDefaults() {
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.log_format", "console")
	viper.SetDefault("storage.root", ".")
	viper.SetDefault("storage.private_dir", "./data/private")
	viper.SetDefault("preferences.dir", "./data/shared_prefs")
	viper.SetDefault("assets.dir", "./assets")
	viper.SetDefault("classpath.dir", "./classpath")
	viper.SetDefault("resources.dir", "./res")
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.capacity", cache.DefaultCapacity)
	viper.SetDefault("cache.ttl", cache.DefaultTTL)
	viper.SetDefault("http.timeout", "30s")
}
