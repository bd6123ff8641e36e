package handler

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"simpleio/internal/adapters/asset"
	"simpleio/internal/adapters/codec"
	"simpleio/internal/adapters/file"
	"simpleio/internal/adapters/network"
	"simpleio/internal/adapters/preferences"
	"simpleio/internal/adapters/storage"
	"simpleio/internal/core/domain"
	"simpleio/internal/core/service"

	"github.com/psanford/memfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	cli *CLI
	mem afero.Fs
	out *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 5, 4))))

	assets := memfs.New()
	require.NoError(t, assets.WriteFile("star.png", img.Bytes(), 0o777))
	require.NoError(t, assets.MkdirAll("docs", 0o777))
	require.NoError(t, assets.WriteFile("docs/readme.txt", []byte("line one\nline two\n"), 0o777))

	mem := afero.NewMemMapFs()
	files := file.New(mem, "/data")
	bundle := asset.NewBundle("assets", assets)
	resolver := service.NewResolver(codec.New(), files, network.NewFetcher(0), service.WithAssets(bundle))

	return &testEnv{
		cli: NewCLI(resolver,
			service.NewStorage(files, storage.NewObjectStore(mem, "/data/private")),
			preferences.NewStore(mem, "/data/prefs"),
			WithAssetText(bundle)),
		mem: mem,
		out: &bytes.Buffer{},
	}
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	e.out.Reset()
	root := e.cli.Command("simpleio")
	root.Writer = e.out
	return root.Run(t.Context(), append([]string{"simpleio"}, args...))
}

func TestCLI_Resolve(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "resolve", "--out", "star.jpg", "asset", "star.png"))
	assert.Equal(t, "5x4 RGB_565\n", env.out.String())

	ok, err := afero.Exists(env.mem, "/data/star.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, env.run(t, "resolve", "file", "star.jpg"))
	assert.Equal(t, "5x4 RGB_565\n", env.out.String())

	require.NoError(t, env.run(t, "last"))
	assert.Equal(t, "file star.jpg 5x4 RGB_565\n", env.out.String())
}

func TestCLI_LastWithoutHistory(t *testing.T) {
	env := newTestEnv(t)
	require.ErrorIs(t, env.run(t, "last"), domain.ErrNotFound)
}

func TestCLI_Files(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "files", "dir"))
	assert.Equal(t, "/data\n", env.out.String())

	require.NoError(t, env.run(t, "files", "write", "notes/a.txt", "hello"))
	got, err := afero.ReadFile(env.mem, "/data/notes/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	require.NoError(t, env.run(t, "files", "rename", "notes/a.txt", "b.txt"))
	ok, err := afero.Exists(env.mem, "/data/notes/b.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Error(t, env.run(t, "files", "rename", "notes/a.txt", "c.txt"))
}

func TestCLI_ResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "unknown kind", args: []string{"resolve", "ftp", "x"}, wantErr: domain.ErrUnsupported},
		{name: "missing asset", args: []string{"resolve", "asset", "moon.png"}, wantErr: domain.ErrNotFound},
		{name: "no resources configured", args: []string{"resolve", "resource", "1"}, wantErr: domain.ErrMissingInput},
	}

	env := newTestEnv(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, env.run(t, tc.args...), tc.wantErr)
		})
	}

	require.Error(t, env.run(t, "resolve", "file"))
}

func TestCLI_Settings(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "settings", "get", "--type", "int", "--default", "4", "volume"))
	assert.Equal(t, "4\n", env.out.String())

	require.NoError(t, env.run(t, "settings", "set", "--type", "int", "volume", "11"))
	require.NoError(t, env.run(t, "settings", "get", "--type", "int", "volume"))
	assert.Equal(t, "11\n", env.out.String())

	require.NoError(t, env.run(t, "settings", "set", "--store", "other", "--type", "bool", "muted", "true"))
	require.NoError(t, env.run(t, "settings", "get", "--store", "other", "--type", "bool", "muted"))
	assert.Equal(t, "true\n", env.out.String())

	require.NoError(t, env.run(t, "settings", "set", "name", "bob"))
	require.NoError(t, env.run(t, "settings", "get", "name"))
	assert.Equal(t, "bob\n", env.out.String())

	require.Error(t, env.run(t, "settings", "set", "--type", "int", "volume", "loud"))
	require.Error(t, env.run(t, "settings", "get", "--type", "int", "--default", "loud", "missing"))
	require.Error(t, env.run(t, "settings", "get", "--type", "bool", "--default", "maybe", "missing"))
	require.ErrorIs(t, env.run(t, "settings", "get", "--type", "float", "volume"), domain.ErrUnsupported)
}

func TestCLI_AssetURI(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "asset-uri", "icons/star.png"))
	assert.Equal(t, "file:///android_asset/icons/star.png\n", env.out.String())
}

func TestCLI_AssetText(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "files", "asset-text", "docs/readme.txt"))
	assert.Equal(t, "line one\nline two\n", env.out.String())

	require.ErrorIs(t, env.run(t, "files", "asset-text", "docs/missing.txt"), domain.ErrNotFound)
}

func TestCLI_Render(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantOutput string
		wantSize   image.Point
	}{
		{
			name:       "padded asset",
			args:       []string{"render", "--out", "card.png", "--padding", "3", "--background", "#ff0000", "asset", "star.png"},
			wantOutput: "11x10 ARGB_8888\n",
			wantSize:   image.Pt(11, 10),
		},
		{
			name:       "placeholder in edit mode",
			args:       []string{"render", "--out", "card.png", "--edit", "resource", "7"},
			wantOutput: "32x32 ARGB_8888\n",
			wantSize:   image.Pt(32, 32),
		},
		{
			name:       "placeholder for id zero",
			args:       []string{"render", "--out", "card.png", "--padding", "1", "resource", "0"},
			wantOutput: "34x34 ARGB_8888\n",
			wantSize:   image.Pt(34, 34),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)

			require.NoError(t, env.run(t, tc.args...))
			assert.Equal(t, tc.wantOutput, env.out.String())

			f, err := env.mem.Open("/data/card.png")
			require.NoError(t, err)
			defer f.Close()
			cfg, err := png.DecodeConfig(f)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSize, image.Pt(cfg.Width, cfg.Height))
		})
	}
}

func TestCLI_RenderErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "bad colour", args: []string{"render", "--out", "a.png", "--background", "red", "asset", "star.png"}, wantErr: domain.ErrUnsupported},
		{name: "negative padding", args: []string{"render", "--out", "a.png", "--padding=-1", "asset", "star.png"}, wantErr: domain.ErrUnsupported},
		{name: "resource without provider", args: []string{"render", "--out", "a.png", "resource", "5"}, wantErr: domain.ErrMissingInput},
	}

	env := newTestEnv(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, env.run(t, tc.args...), tc.wantErr)
		})
	}

	require.Error(t, env.run(t, "render", "asset", "star.png"), "--out is required")
}
