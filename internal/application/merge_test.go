package application_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"langmerge/internal/application"
	"langmerge/internal/config"
	"langmerge/internal/domain/entities"
	"langmerge/internal/infrastructure/filesystem"
	"langmerge/internal/infrastructure/i18n"
	"langmerge/internal/ports/output"
	"langmerge/pkg/script"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type fixture struct {
	cfg  *config.Config
	logs *bytes.Buffer
	svc  *application.MergeService
}

func newFixture(t *testing.T, opts ...application.Option) *fixture {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.ManualRoot = filepath.Join(base, "manual")
	cfg.MachineRoot = filepath.Join(base, "machine")
	cfg.OutputRoot = filepath.Join(base, "output")

	return newFixtureWithStore(t, cfg, filesystem.NewStore(cfg.TargetFile), opts...)
}

func newFixtureWithStore(t *testing.T, cfg *config.Config, store output.TranslationStore, opts ...application.Option) *fixture {
	t.Helper()
	logs := &bytes.Buffer{}
	opts = append([]application.Option{
		application.WithClock(func() time.Time { return fixedNow }),
		application.WithLocation(time.UTC),
	}, opts...)
	svc := application.NewMergeService(cfg, store, script.Japanese(), i18n.NewTranslator("en"),
		log.New(logs, "", 0), opts...)
	return &fixture{cfg: cfg, logs: logs, svc: svc}
}

func (f *fixture) put(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (f *fixture) output(t *testing.T, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(f.cfg.OutputRoot, rel))
	require.NoError(t, err)
	return string(b)
}

func (f *fixture) lines() []string {
	return strings.Split(strings.TrimRight(f.logs.String(), "\n"), "\n")
}

func TestRunScenario(t *testing.T) {
	f := newFixture(t)
	rel := filepath.Join("assets", "mod", "lang", "ja_jp.json")
	f.put(t, f.cfg.ManualRoot, rel, `{"a": "こんにちは", "b": "Hello"}`)
	f.put(t, f.cfg.MachineRoot, rel, `{"a": "MT-a", "b": "MT-b", "c": "MT-c"}`)

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 1, summary.Adopted)
	assert.Equal(t, 0, summary.Warnings)
	assert.Equal(t, []string{"assets/mod/lang/ja_jp.json"}, summary.Paths)
	assert.Equal(t, "{\n    \"a\": \"こんにちは\",\n    \"b\": \"MT-b\",\n    \"c\": \"MT-c\"\n}\n", f.output(t, rel))

	assert.Equal(t, []string{
		"assets/mod/lang/ja_jp.json: adopted 1 manual translation",
		"✅ Merged 1 file (1 manual adoptions, 0 warnings)",
	}, f.lines())
}

func TestRunManualMissing(t *testing.T) {
	f := newFixture(t)
	rel := filepath.Join("only-mt", "ja_jp.json")
	f.put(t, f.cfg.MachineRoot, rel, `{"x": "y"}`)

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Adopted)
	assert.Equal(t, 0, summary.Warnings)
	assert.Equal(t, "{\n    \"x\": \"y\"\n}\n", f.output(t, rel))
	assert.Equal(t, []string{"✅ Merged 1 file (0 manual adoptions, 0 warnings)"}, f.lines())
}

func TestRunMachineMissing(t *testing.T) {
	f := newFixture(t)
	rel := filepath.Join("only-manual", "ja_jp.json")
	f.put(t, f.cfg.ManualRoot, rel, `{"x": "鉄", "y": "Iron"}`)

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Adopted)
	assert.Equal(t, "{\n    \"x\": \"鉄\",\n    \"y\": \"Iron\"\n}\n", f.output(t, rel))
}

func TestRunMalformedManualBehavesLikeMissing(t *testing.T) {
	f := newFixture(t)
	broken := filepath.Join("broken", "ja_jp.json")
	absent := filepath.Join("absent", "ja_jp.json")
	f.put(t, f.cfg.ManualRoot, broken, `{"a": "こんにちは",`)
	f.put(t, f.cfg.MachineRoot, broken, `{"a": "MT-a"}`)
	f.put(t, f.cfg.MachineRoot, absent, `{"a": "MT-a"}`)

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, f.output(t, absent), f.output(t, broken))
	assert.Equal(t, 0, summary.Adopted)
	assert.Equal(t, 1, summary.Warnings)

	var warnings []string
	for _, l := range f.lines() {
		if strings.HasPrefix(l, "⚠️") {
			warnings = append(warnings, l)
		}
	}
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], filepath.Join(f.cfg.ManualRoot, broken))
	assert.Contains(t, warnings[0], "(decode)")
	assert.Equal(t, "✅ Merged 2 files (0 manual adoptions, 1 warnings)", f.lines()[len(f.lines())-1])
}

func TestRunBOMInput(t *testing.T) {
	f := newFixture(t)
	rel := "ja_jp.json"
	f.put(t, f.cfg.ManualRoot, rel, "\ufeff"+`{"a": "ようこそ"}`)
	f.put(t, f.cfg.MachineRoot, rel, "\ufeff"+`{"a": "MT"}`)

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Warnings)
	assert.Equal(t, "{\n    \"a\": \"ようこそ\"\n}\n", f.output(t, rel))
}

func TestRunMetadata(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Files)
	assert.Equal(t, fixedNow, summary.Date)

	meta := f.output(t, "pack.mcmeta")
	assert.Contains(t, meta, "\"pack_format\": 15")
	assert.Contains(t, meta, "2026-10-17")
	assert.Contains(t, meta, "ja_jp")
	assert.Equal(t, []string{"✅ Merged 0 files (0 manual adoptions, 0 warnings)"}, f.lines())
}

func TestRunMetadataOverwrites(t *testing.T) {
	f := newFixture(t)
	f.put(t, f.cfg.OutputRoot, "pack.mcmeta", "stale")

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, f.output(t, "pack.mcmeta"), "stale")
}

func TestRunMetadataUsesToday(t *testing.T) {
	f := newFixture(t, application.WithClock(time.Now))

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, f.output(t, "pack.mcmeta"), time.Now().UTC().Format("2006-01-02"))
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t)
	rels := []string{
		filepath.Join("a", "ja_jp.json"),
		filepath.Join("b", "c", "ja_jp.json"),
	}
	for _, rel := range rels {
		f.put(t, f.cfg.ManualRoot, rel, `{"k1": "一", "k2": "two", "k3": ""}`)
		f.put(t, f.cfg.MachineRoot, rel, `{"k2": "二", "k4": "<四> & \"five\""}`)
	}

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	first := map[string]string{}
	for _, rel := range rels {
		first[rel] = f.output(t, rel)
	}
	firstLogs := f.logs.String()

	f.logs.Reset()
	_, err = f.svc.Run(context.Background())
	require.NoError(t, err)
	for _, rel := range rels {
		assert.Equal(t, first[rel], f.output(t, rel))
	}
	assert.Equal(t, firstLogs, f.logs.String())
	assert.Contains(t, first[rels[0]], `"k4": "<四> & \"five\""`)
}

type failingStore struct {
	*filesystem.Store
	err error
}

func (s failingStore) Save(string, entities.Mapping) error { return s.err }

func TestRunOutputErrorIsFatal(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.ManualRoot = filepath.Join(base, "manual")
	cfg.MachineRoot = filepath.Join(base, "machine")
	cfg.OutputRoot = filepath.Join(base, "output")

	boom := errors.New("disk full")
	f := newFixtureWithStore(t, cfg, failingStore{Store: filesystem.NewStore(cfg.TargetFile), err: boom})
	f.put(t, cfg.MachineRoot, "ja_jp.json", `{"a": "b"}`)

	_, err := f.svc.Run(context.Background())
	require.ErrorIs(t, err, boom)
	_, statErr := os.Stat(filepath.Join(cfg.OutputRoot, "pack.mcmeta"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunOutputDirBlocked(t *testing.T) {
	f := newFixture(t)
	f.put(t, f.cfg.MachineRoot, filepath.Join("sub", "ja_jp.json"), `{"a": "b"}`)
	// a regular file where the output directory must go
	f.put(t, f.cfg.OutputRoot, "sub", "x")

	_, err := f.svc.Run(context.Background())
	require.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t)
	f.put(t, f.cfg.MachineRoot, "ja_jp.json", `{"a": "b"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.svc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

type recordingNotifier struct {
	got []entities.RunSummary
	err error
}

func (n *recordingNotifier) Notify(_ context.Context, s entities.RunSummary) error {
	n.got = append(n.got, s)
	return n.err
}

func TestRunNotifies(t *testing.T) {
	n := &recordingNotifier{}
	f := newFixture(t, application.WithNotifier(n))
	f.put(t, f.cfg.MachineRoot, "ja_jp.json", `{"a": "b"}`)

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, n.got, 1)
	assert.Equal(t, summary, n.got[0])
}

func TestRunNotifierFailureIsAWarning(t *testing.T) {
	n := &recordingNotifier{err: errors.New("webhook down")}
	f := newFixture(t, application.WithNotifier(n))

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"⚠️ Run summary notification failed: webhook down",
		"✅ Merged 0 files (0 manual adoptions, 0 warnings)",
	}, f.lines())
}

func TestMergeFile(t *testing.T) {
	f := newFixture(t)
	rel := filepath.Join("x", "ja_jp.json")
	f.put(t, f.cfg.ManualRoot, rel, `{"a": "あ"}`)

	res, err := f.svc.MergeFile(context.Background(), rel)
	require.NoError(t, err)
	assert.Equal(t, rel, res.RelPath)
	assert.Equal(t, 1, res.Adopted)
	assert.Equal(t, entities.Mapping{"a": "あ"}, res.Merged)
}

func TestRunMetadataFollowsTarget(t *testing.T) {
	f := newFixture(t)
	f.cfg.TargetFile = "ko_kr.json"

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	meta := f.output(t, "pack.mcmeta")
	assert.Contains(t, meta, "ko_kr")
	assert.NotContains(t, meta, "Japanese")
}

func TestRunKeepsFileWithNonStringValues(t *testing.T) {
	f := newFixture(t)
	rel := "ja_jp.json"
	f.put(t, f.cfg.ManualRoot, rel, `{"a": "こんにちは", "n": 0, "o": {"k": "v"}}`)
	f.put(t, f.cfg.MachineRoot, rel, `{"a": "MT-a", "n": 2, "b": true}`)

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Warnings)
	assert.Equal(t, 1, summary.Adopted)
	assert.Equal(t, "{\n    \"a\": \"こんにちは\",\n    \"b\": true,\n    \"n\": 2,\n    \"o\": {\n        \"k\": \"v\"\n    }\n}\n", f.output(t, rel))
}

func TestRunInvalidUTF8ManualIsAWarning(t *testing.T) {
	f := newFixture(t)
	rel := "ja_jp.json"
	f.put(t, f.cfg.ManualRoot, rel, "{\"a\": \"\xff\xfe\x80bad\"}")
	f.put(t, f.cfg.MachineRoot, rel, `{"a": "MT-a"}`)

	summary, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Warnings)
	assert.Equal(t, "{\n    \"a\": \"MT-a\"\n}\n", f.output(t, rel))
	assert.Contains(t, f.lines()[0], "(decode)")
}

func TestMergeFileCancelled(t *testing.T) {
	f := newFixture(t)
	rel := "ja_jp.json"
	f.put(t, f.cfg.MachineRoot, rel, `{"a": "b"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.svc.MergeFile(ctx, rel)
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(f.cfg.OutputRoot, rel))
	assert.True(t, os.IsNotExist(statErr))
}
