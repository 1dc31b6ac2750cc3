package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"langmerge/internal/domain"
)

// Valeurs par défaut : l'outil tourne sans aucune variable d'environnement.
const (
	DefaultManualRoot   = "manual"
	DefaultMachineRoot  = "machine"
	DefaultOutputRoot   = "output"
	DefaultTargetFile   = "ja_jp.json"
	DefaultMetadataFile = "pack.mcmeta"
	DefaultPackFormat   = 15
	DefaultLocale       = "en"
)

// DefaultScripts sélectionne la table Hiragana + Katakana + idéogrammes CJK.
var DefaultScripts = []string{"Japanese"}

type Config struct {
	ManualRoot   string
	MachineRoot  string
	OutputRoot   string
	TargetFile   string
	MetadataFile string
	PackFormat   int
	Scripts      []string
	Locale       string
	Timezone     string

	DiscordWebhookID    string
	DiscordWebhookToken string
}

// Default renvoie la configuration figée utilisée quand rien n'est surchargé.
func Default() *Config {
	return &Config{
		ManualRoot:   DefaultManualRoot,
		MachineRoot:  DefaultMachineRoot,
		OutputRoot:   DefaultOutputRoot,
		TargetFile:   DefaultTargetFile,
		MetadataFile: DefaultMetadataFile,
		PackFormat:   DefaultPackFormat,
		Scripts:      append([]string(nil), DefaultScripts...),
		Locale:       DefaultLocale,
	}
}

// Load part de Default, applique le .env éventuel puis les variables LANGMERGE_*,
// et valide le résultat.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel : sans lui on garde les valeurs par défaut.
	}

	cfg := Default()
	overrideString(&cfg.ManualRoot, "LANGMERGE_MANUAL_ROOT")
	overrideString(&cfg.MachineRoot, "LANGMERGE_MACHINE_ROOT")
	overrideString(&cfg.OutputRoot, "LANGMERGE_OUTPUT_ROOT")
	overrideString(&cfg.TargetFile, "LANGMERGE_TARGET_FILE")
	overrideString(&cfg.MetadataFile, "LANGMERGE_METADATA_FILE")
	overrideString(&cfg.Locale, "LANGMERGE_LOCALE")
	overrideString(&cfg.Timezone, "LANGMERGE_TIMEZONE")
	overrideString(&cfg.DiscordWebhookID, "LANGMERGE_DISCORD_WEBHOOK_ID")
	overrideString(&cfg.DiscordWebhookToken, "LANGMERGE_DISCORD_WEBHOOK_TOKEN")

	if v := strings.TrimSpace(os.Getenv("LANGMERGE_PACK_FORMAT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: LANGMERGE_PACK_FORMAT invalide (%q): %w", v, err)
		}
		cfg.PackFormat = n
	}
	if v := strings.TrimSpace(os.Getenv("LANGMERGE_SCRIPTS")); v != "" {
		cfg.Scripts = splitList(v)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NotifierEnabled est vrai quand les deux moitiés du webhook Discord sont fournies.
func (c *Config) NotifierEnabled() bool {
	return c.DiscordWebhookID != "" && c.DiscordWebhookToken != ""
}

// validate applique toutes les règles sur la configuration chargée.
func (c *Config) validate() error {
	for name, v := range map[string]string{
		"LANGMERGE_MANUAL_ROOT":  c.ManualRoot,
		"LANGMERGE_MACHINE_ROOT": c.MachineRoot,
		"LANGMERGE_OUTPUT_ROOT":  c.OutputRoot,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("config: %s est requis et ne peut pas être vide", name)
		}
	}

	if strings.TrimSpace(c.TargetFile) == "" {
		return fmt.Errorf("config: LANGMERGE_TARGET_FILE: %w", domain.ErrEmptyTargetFile)
	}
	if strings.ContainsAny(c.TargetFile, `/\`) || strings.ContainsAny(c.MetadataFile, `/\`) {
		return fmt.Errorf("config: les noms de fichiers ne doivent pas contenir de séparateur")
	}
	if strings.TrimSpace(c.MetadataFile) == "" {
		c.MetadataFile = DefaultMetadataFile
	}

	if c.PackFormat <= 0 {
		return fmt.Errorf("config: pack_format=%d: %w", c.PackFormat, domain.ErrInvalidPackFmt)
	}

	out := filepath.Clean(c.OutputRoot)
	if out == filepath.Clean(c.ManualRoot) || out == filepath.Clean(c.MachineRoot) {
		return fmt.Errorf("config: %q: %w", c.OutputRoot, domain.ErrSameRoots)
	}

	if len(c.Scripts) == 0 {
		return fmt.Errorf("config: LANGMERGE_SCRIPTS: %w", domain.ErrNoScripts)
	}

	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("config: LANGMERGE_LOCALE invalide (%q): %w", c.Locale, err)
	}

	if (c.DiscordWebhookID == "") != (c.DiscordWebhookToken == "") {
		return fmt.Errorf("config: LANGMERGE_DISCORD_WEBHOOK_ID et LANGMERGE_DISCORD_WEBHOOK_TOKEN vont ensemble")
	}

	return nil
}

func overrideString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
