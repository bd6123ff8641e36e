package handler

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"simpleio/internal/adapters/view"
	"simpleio/internal/core/domain"
	"simpleio/internal/core/port"
	"simpleio/internal/core/service"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

const (
	defaultStore = "settings"
	lastResolved = "last_resolved"
)

// Resolved describes the most recent successful resolve.
type Resolved struct {
	Kind   string
	Ref    string
	Width  int
	Height int
	Format string
}

// TextReader returns the content of a bundled text file.
type TextReader interface {
	ReadString(path string) (string, error)
}

// CLI exposes the resolver, the settings store and the storage helpers as command line commands.
type CLI struct {
	resolver *service.Resolver
	storage  *service.Storage
	prefs    port.PreferenceStore
	assets   TextReader
	sources  *Registry
}

type Option func(*CLI)

// WithAssetText enables "files asset-text".
func WithAssetText(assets TextReader) Option {
	return func(c *CLI) { c.assets = assets }
}

func NewCLI(resolver *service.Resolver, storage *service.Storage, prefs port.PreferenceStore, opts ...Option) *CLI {
	c := &CLI{resolver: resolver, storage: storage, prefs: prefs, sources: newSources(resolver)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Command returns the root command named name.
func (c *CLI) Command(name string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: "Load, convert and store images and settings",
		Commands: []*cli.Command{
			c.resolveCommand(),
			c.renderCommand(),
			c.settingsCommand(),
			c.filesCommand(),
			{
				Name:  "last",
				Usage: "Show the most recently resolved image",
				Action: func(_ context.Context, cmd *cli.Command) error {
					var r Resolved
					if err := c.storage.LoadSerializable(lastResolved, &r); err != nil {
						return err
					}
					_, err := fmt.Fprintf(out(cmd), "%s %s %dx%d %s\n", r.Kind, r.Ref, r.Width, r.Height, r.Format)
					return err
				},
			},
			{
				Name:      "asset-uri",
				Usage:     "Print the URI of a file in the asset bundle",
				ArgsUsage: "PATH",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return errors.New("expected exactly one argument")
					}
					_, err := fmt.Fprintln(out(cmd), service.AssetURI(cmd.Args().First()))
					return err
				},
			},
		},
	}
}

func out(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func (c *CLI) resolveCommand() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Decode an image reference and optionally save it",
		UsageText: `simpleio resolve [OPTIONS] KIND REF

KIND is one of: resource, file, uri, asset, classpath, url

$ simpleio resolve file /sdcard/abc.png
$ simpleio resolve --out star.jpg --quality 80 asset icons/star.png
$ simpleio resolve url https://example.org/cat.png`,
		ArgsUsage: "KIND REF",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write the decoded image to this path, encoded by extension",
			},
			&cli.IntFlag{
				Name:  "quality",
				Usage: "JPEG quality, 1 to 100",
				Value: 90,
			},
		},
		Action: c.resolve,
	}
}

func (c *CLI) resolve(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected KIND and REF, KIND one of %s", strings.Join(c.sources.ListKinds(), ", "))
	}
	kind, ref := cmd.Args().Get(0), cmd.Args().Get(1)

	bm, err := c.lookup(ctx, kind, ref)
	if err != nil {
		return err
	}

	log.Info().Str("kind", kind).Str("ref", ref).Msg("image resolved")

	if _, err := fmt.Fprintf(out(cmd), "%dx%d %s\n", bm.Width(), bm.Height(), bm.Format); err != nil {
		return err
	}

	record := Resolved{Kind: kind, Ref: ref, Width: bm.Width(), Height: bm.Height(), Format: bm.Format.String()}
	if err := c.storage.SaveSerializable(lastResolved, record); err != nil {
		log.Warn().Err(err).Msg("could not remember resolved image")
	}

	if path := cmd.String("out"); path != "" {
		return c.resolver.SaveImage(path, bm, int(cmd.Int("quality")))
	}
	return nil
}

func (c *CLI) renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Draw an image on a padded background and save the result",
		UsageText: `simpleio render [OPTIONS] KIND REF

$ simpleio render --out card.png --padding 8 --background "#202020" asset icons/star.png
$ simpleio render --out preview.png --edit resource 2130837504`,
		ArgsUsage: "KIND REF",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "write the rendered image to this path, encoded by extension",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "padding",
				Usage: "space around the image in pixels",
			},
			&cli.StringFlag{
				Name:  "background",
				Usage: "background colour as #rrggbb or #rrggbbaa",
			},
			&cli.BoolFlag{
				Name:  "edit",
				Usage: "render in edit mode; resources show a placeholder",
			},
			&cli.IntFlag{
				Name:  "quality",
				Usage: "JPEG quality, 1 to 100",
				Value: 90,
			},
		},
		Action: c.render,
	}
}

func (c *CLI) render(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected KIND and REF, KIND one of %s", strings.Join(c.sources.ListKinds(), ", "))
	}
	kind, ref := cmd.Args().Get(0), cmd.Args().Get(1)

	padding := int(cmd.Int("padding"))
	if padding < 0 {
		return fmt.Errorf("%w: negative padding %d", domain.ErrUnsupported, padding)
	}
	background, err := parseColor(cmd.String("background"))
	if err != nil {
		return err
	}

	v := view.NewImageView(nil)
	v.Padding = padding
	v.Background = background
	v.EditMode = cmd.Bool("edit")

	var content *domain.Bitmap
	if kind == "resource" {
		id, err := parseResourceID(ref)
		if err != nil {
			return err
		}
		content, err = c.resolver.FromResourceOrPlaceholder(v, id)
		if err != nil {
			return err
		}
	} else if content, err = c.lookup(ctx, kind, ref); err != nil {
		return err
	}
	v.Content = content.Image

	rendered, err := c.resolver.FromView(v)
	if err != nil {
		return err
	}

	log.Info().Str("kind", kind).Str("ref", ref).Int("padding", padding).Msg("image rendered")

	if _, err := fmt.Fprintf(out(cmd), "%dx%d %s\n", rendered.Width(), rendered.Height(), rendered.Format); err != nil {
		return err
	}
	return c.resolver.SaveImage(cmd.String("out"), rendered, int(cmd.Int("quality")))
}

// parseColor accepts #rrggbb and #rrggbbaa; an empty string means no colour.
func parseColor(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("%w: colour %q", domain.ErrUnsupported, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: colour %q: %w", domain.ErrUnsupported, s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func (c *CLI) lookup(ctx context.Context, kind, ref string) (*domain.Bitmap, error) {
	source, err := c.sources.Get(kind)
	if err != nil {
		return nil, err
	}
	return source(ctx, ref)
}

func newSources(r *service.Resolver) *Registry {
	sources := &Registry{}
	sources.Register("resource", func(_ context.Context, ref string) (*domain.Bitmap, error) {
		id, err := parseResourceID(ref)
		if err != nil {
			return nil, err
		}
		return r.FromResource(id)
	})
	sources.Register("file", func(_ context.Context, ref string) (*domain.Bitmap, error) { return r.FromFile(ref) })
	sources.Register("uri", func(_ context.Context, ref string) (*domain.Bitmap, error) { return r.FromURI(ref) })
	sources.Register("asset", func(_ context.Context, ref string) (*domain.Bitmap, error) { return r.FromAsset(ref) })
	sources.Register("classpath", func(_ context.Context, ref string) (*domain.Bitmap, error) { return r.FromClasspath(ref) })
	sources.Register("url", r.FromURL)
	return sources
}

func parseResourceID(ref string) (int, error) {
	id, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid resource id %q: %w", ref, err)
	}
	return id, nil
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "store",
			Usage: "name of the settings store",
			Value: defaultStore,
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "value type: string, bool or int",
			Value: "string",
		},
	}
}

func (c *CLI) settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Read and write persistent settings",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print a setting",
				ArgsUsage: "KEY",
				Flags: append(storeFlags(), &cli.StringFlag{
					Name:  "default",
					Usage: "value printed when the key is not set",
				}),
				Action: c.getSetting,
			},
			{
				Name:      "set",
				Usage:     "Store a setting",
				ArgsUsage: "KEY VALUE",
				Flags:     storeFlags(),
				Action:    c.setSetting,
			},
		},
	}
}

func (c *CLI) getSetting(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("expected KEY")
	}
	key, def := cmd.Args().First(), cmd.String("default")
	s := service.NewSettings(c.prefs, cmd.String("store"))

	var value string
	switch cmd.String("type") {
	case "string":
		value = s.LoadString(key, def)
	case "bool":
		d := false
		if def != "" {
			var err error
			if d, err = strconv.ParseBool(def); err != nil {
				return fmt.Errorf("invalid bool default %q: %w", def, err)
			}
		}
		value = strconv.FormatBool(s.LoadBool(key, d))
	case "int":
		d := 0
		if def != "" {
			var err error
			if d, err = strconv.Atoi(def); err != nil {
				return fmt.Errorf("invalid int default %q: %w", def, err)
			}
		}
		value = strconv.Itoa(s.LoadInt(key, d))
	default:
		return fmt.Errorf("%w: type %q", domain.ErrUnsupported, cmd.String("type"))
	}

	_, err := fmt.Fprintln(out(cmd), value)
	return err
}

func (c *CLI) setSetting(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return errors.New("expected KEY and VALUE")
	}
	key, raw := cmd.Args().Get(0), cmd.Args().Get(1)
	s := service.NewSettings(c.prefs, cmd.String("store"))

	var err error
	switch cmd.String("type") {
	case "string":
		err = s.StoreString(key, raw)
	case "bool":
		v, perr := strconv.ParseBool(raw)
		if perr != nil {
			return fmt.Errorf("invalid bool %q: %w", raw, perr)
		}
		err = s.StoreBool(key, v)
	case "int":
		v, perr := strconv.Atoi(raw)
		if perr != nil {
			return fmt.Errorf("invalid int %q: %w", raw, perr)
		}
		err = s.StoreInt(key, v)
	default:
		return fmt.Errorf("%w: type %q", domain.ErrUnsupported, cmd.String("type"))
	}
	if err != nil {
		return err
	}

	log.Info().Str("store", s.Name()).Str("key", key).Msg("setting stored")
	return nil
}

func (c *CLI) filesCommand() *cli.Command {
	return &cli.Command{
		Name:  "files",
		Usage: "Plain file helpers on external storage",
		Commands: []*cli.Command{
			{
				Name:  "dir",
				Usage: "Print the external storage directory",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintln(out(cmd), c.storage.ExternalDir())
					return err
				},
			},
			{
				Name:      "write",
				Usage:     "Write text to a file",
				ArgsUsage: "PATH TEXT",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return errors.New("expected PATH and TEXT")
					}
					return c.storage.SaveString(cmd.Args().Get(0), cmd.Args().Get(1))
				},
			},
			{
				Name:      "asset-text",
				Usage:     "Print a text file from the asset bundle",
				ArgsUsage: "PATH",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return errors.New("expected PATH")
					}
					if c.assets == nil {
						return fmt.Errorf("%w: no asset bundle", domain.ErrMissingInput)
					}
					text, err := c.assets.ReadString(cmd.Args().First())
					if err != nil {
						return err
					}
					_, err = io.WriteString(out(cmd), text)
					return err
				},
			},
			{
				Name:      "rename",
				Usage:     "Rename a file within its directory",
				ArgsUsage: "PATH NEW_NAME",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return errors.New("expected PATH and NEW_NAME")
					}
					return c.storage.Rename(cmd.Args().Get(0), cmd.Args().Get(1))
				},
			},
		},
	}
}
